package analyzer

import (
	"context"
	"fmt"
	"io"

	"tracelens/internal/aggregate"
	"tracelens/internal/events"
	"tracelens/internal/stats"
	"tracelens/internal/trace"
)

// Options configures one analysis pass. Zero values select the defaults.
type Options struct {
	// MinDurationMS drops reconstructed events shorter than this many
	// milliseconds before aggregation. Zero keeps everything.
	MinDurationMS float64
	// TopFiles and TopLocations bound the hotspot lists.
	TopFiles     int
	TopLocations int
	// Percentiles to compute over event durations, 0-100.
	Percentiles []float64
	// Progress receives decoding progress, if set.
	Progress trace.ProgressFunc
}

const (
	defaultTopFiles     = 10
	defaultTopLocations = 10
)

var defaultPercentiles = []float64{50, 90, 95, 99}

// Analyzer runs the full ingestion-and-aggregation pipeline. Each stage
// returns a fresh value and never mutates its input; the analyzer itself
// is stateless and safe to reuse across traces.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer, filling unset options with defaults.
func New(opts Options) *Analyzer {
	if opts.TopFiles <= 0 {
		opts.TopFiles = defaultTopFiles
	}
	if opts.TopLocations <= 0 {
		opts.TopLocations = defaultTopLocations
	}
	if len(opts.Percentiles) == 0 {
		opts.Percentiles = defaultPercentiles
	}
	return &Analyzer{opts: opts}
}

// Analyze decodes a trace from r and produces the aggregated Report.
// totalBytes is the source length, used only for progress reporting.
// The context is checked between pipeline stages; the decoder is the
// only stage performing I/O.
func (a *Analyzer) Analyze(ctx context.Context, r io.Reader, totalBytes int64) (*Report, error) {
	dec := trace.NewDecoder(r, totalBytes, trace.WithProgress(a.opts.Progress))
	raw, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("decoding trace: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processed := events.Rebuild(raw)
	kept := events.FilterMinDuration(processed, a.opts.MinDurationMS)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg := aggregate.Build(kept)

	files := make([]FileReport, len(agg.Files))
	var allLocations []aggregate.CodeLocation
	for i, fe := range agg.Files {
		files[i] = FileReport{
			FileEvents: fe,
			Locations:  aggregate.Locations(fe.Events),
		}
		allLocations = append(allLocations, files[i].Locations...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hotFiles := stats.TopN(agg.Files, a.opts.TopFiles, func(fe aggregate.FileEvents) float64 {
		return fe.TotalTime
	})
	hotLocations := stats.TopN(allLocations, a.opts.TopLocations, func(loc aggregate.CodeLocation) float64 {
		return loc.Duration
	})

	durations := make([]float64, len(kept))
	for i, ev := range kept {
		durations[i] = ev.Duration
	}
	pvals := stats.Percentiles(durations, a.opts.Percentiles)
	percentiles := make(map[string]float64, len(pvals))
	for i, p := range a.opts.Percentiles {
		percentiles[fmt.Sprintf("p%g", p)] = pvals[i]
	}

	return &Report{
		Meta: Meta{
			TotalEvents:     len(processed),
			DroppedByFilter: len(processed) - len(kept),
			TraceDurationMS: traceDuration(kept),
			ProcessNames:    processNames(raw),
			ThreadNames:     threadNames(raw),
		},
		Events: kept,
		Files:  files,
		Phases: stats.Breakdown(kept),
		Hotspots: stats.Hotspots{
			Files:     hotFiles,
			Locations: hotLocations,
		},
		Percentiles: percentiles,
	}, nil
}

// traceDuration is the latest event end on the normalized timeline.
func traceDuration(evs []events.ProcessedEvent) float64 {
	var latest float64
	for _, ev := range evs {
		if end := ev.EndTime(); end > latest {
			latest = end
		}
	}
	return latest
}

// processNames recovers process_name metadata events, which Rebuild
// discards from the timed event list.
func processNames(raw []trace.RawEvent) map[int]string {
	var names map[int]string
	for _, ev := range raw {
		if ev.Phase != trace.PhaseMetadata || ev.Name != "process_name" {
			continue
		}
		name, ok := events.ArgString(ev.Args, "name")
		if !ok || name == "" {
			continue
		}
		if names == nil {
			names = make(map[int]string)
		}
		names[ev.ProcessID] = name
	}
	return names
}

func threadNames(raw []trace.RawEvent) map[string]string {
	var names map[string]string
	for _, ev := range raw {
		if ev.Phase != trace.PhaseMetadata || ev.Name != "thread_name" {
			continue
		}
		name, ok := events.ArgString(ev.Args, "name")
		if !ok || name == "" {
			continue
		}
		if names == nil {
			names = make(map[string]string)
		}
		names[fmt.Sprintf("%d/%d", ev.ProcessID, ev.ThreadID)] = name
	}
	return names
}
