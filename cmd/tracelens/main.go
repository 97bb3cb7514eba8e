package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "tracelens",
	Short: "Compiler trace analyzer",
	Long:  "tracelens turns tsc --generateTrace output into per-file and per-location performance metrics.",
}

func main() {
	rootCmd.AddCommand(analyzeCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a config file (default ~/.config/tracelens/config.toml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress progress and summary output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
