package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tracelens/internal/analyzer"
	"tracelens/internal/config"
	"tracelens/internal/trace"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <trace.json>",
	Short: "Analyze a compiler trace and export the aggregated report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64("min-duration", -1, "drop events shorter than this many milliseconds")
	analyzeCmd.Flags().Int("top", 0, "number of hotspot files and locations to report")
	analyzeCmd.Flags().Bool("pretty", false, "indent the JSON report")
	analyzeCmd.Flags().String("out", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().String("filter-file", "", "only report files whose path contains this substring")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyColorMode(cmd, cfg)

	if v, _ := cmd.Flags().GetFloat64("min-duration"); v >= 0 {
		cfg.Analysis.MinDurationMS = v
	}
	if v, _ := cmd.Flags().GetInt("top"); v > 0 {
		cfg.Analysis.TopFiles = v
		cfg.Analysis.TopLocations = v
	}
	if v, _ := cmd.Flags().GetBool("pretty"); v {
		cfg.Output.Pretty = true
	}

	tracePath := args[0]
	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading trace size: %w", err)
	}

	opts := analyzer.Options{
		MinDurationMS: cfg.Analysis.MinDurationMS,
		TopFiles:      cfg.Analysis.TopFiles,
		TopLocations:  cfg.Analysis.TopLocations,
		Percentiles:   cfg.Analysis.Percentiles,
	}

	var spin *spinner.Spinner
	if !quiet && isTerminal(os.Stderr) {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = " decoding trace"
		opts.Progress = func(p trace.Progress) {
			spin.Suffix = fmt.Sprintf(" decoding trace  %s / %s  (%d events, %d%%)",
				humanize.Bytes(uint64(p.BytesRead)), humanize.Bytes(uint64(p.TotalBytes)),
				p.EventCount, p.Percentage)
		}
		spin.Start()
		defer spin.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Decode on a worker goroutine so an interrupt cancels between
	// pipeline stages instead of blocking until EOF.
	var report *analyzer.Report
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report, err = analyzer.New(opts).Analyze(ctx, f, info.Size())
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if spin != nil {
		spin.Stop()
	}

	if substr, _ := cmd.Flags().GetString("filter-file"); substr != "" {
		filterReportFiles(report, substr)
	}

	if err := writeReport(cmd, report, cfg.Output.Pretty); err != nil {
		return err
	}

	if !quiet {
		printSummary(report)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var result *config.LoadResult
	var err error
	if path != "" {
		result, err = config.LoadFrom(path)
	} else {
		result, err = config.Load()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "tracelens: config warning: %s\n", w)
	}
	return result.Config, nil
}

func applyColorMode(cmd *cobra.Command, cfg config.Config) {
	noColor, _ := cmd.Flags().GetBool("no-color")
	switch {
	case noColor || cfg.Output.Color == "off":
		color.NoColor = true
	case cfg.Output.Color == "on":
		color.NoColor = false
	default:
		// auto: fatih/color's own TTY detection applies.
	}
}

// filterReportFiles narrows the per-file lists to paths containing
// substr. The event list and phase totals still describe the whole trace.
func filterReportFiles(report *analyzer.Report, substr string) {
	files := report.Files[:0]
	for _, f := range report.Files {
		if strings.Contains(f.Path, substr) {
			files = append(files, f)
		}
	}
	report.Files = files

	hot := report.Hotspots.Files[:0]
	for _, f := range report.Hotspots.Files {
		if strings.Contains(f.Path, substr) {
			hot = append(hot, f)
		}
	}
	report.Hotspots.Files = hot
}

func writeReport(cmd *cobra.Command, report *analyzer.Report, pretty bool) error {
	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func printSummary(report *analyzer.Report) {
	bold := color.New(color.Bold)
	warn := color.New(color.FgYellow)

	fmt.Fprintf(os.Stderr, "tracelens: %d events, %.1f ms trace\n",
		report.Meta.TotalEvents, report.Meta.TraceDurationMS)
	fmt.Fprintf(os.Stderr, "  parse %.1f ms  bind %.1f ms  check %.1f ms  emit %.1f ms\n",
		report.Phases.Parse.TotalTime, report.Phases.Bind.TotalTime,
		report.Phases.Check.TotalTime, report.Phases.Emit.TotalTime)

	if len(report.Hotspots.Files) > 0 {
		bold.Fprintln(os.Stderr, "slowest files:")
		for _, f := range report.Hotspots.Files {
			fmt.Fprintf(os.Stderr, "  %9.1f ms  %s\n", f.TotalTime, f.DisplayPath)
		}
	}
	if len(report.Hotspots.Locations) > 0 {
		bold.Fprintln(os.Stderr, "slowest code locations:")
		for _, loc := range report.Hotspots.Locations {
			warn.Fprintf(os.Stderr, "  %9.1f ms  %s (%d-%d)\n",
				loc.Duration, loc.KindLabel, loc.Pos, loc.End)
		}
	}
}
