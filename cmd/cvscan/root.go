package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentwire/cvscan/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cvscan",
	Short: "Schema-driven CV analysis with LLM-powered extraction",
	Long: `cvscan analyzes candidate CVs (PDF, DOCX or plain text) and produces a
structured spreadsheet using a schema-driven LLM extraction pipeline.

The pipeline includes:
  - YAML field schemas compiled into typed validators
  - Deterministic prompt composition per hiring profile
  - A single-correction retry loop for invalid model output
  - Local pre-approval scoring from validated signals
  - XLSX, CSV and JSON export`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.cvscan/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
