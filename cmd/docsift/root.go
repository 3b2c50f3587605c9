package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/version"
)

var (
	cfgFile string
	envFile string
	verbose bool

	// exitCode is set by commands that report their own failures (JSON on
	// stderr) instead of returning an error for cobra to print.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "docsift",
	Short: "Structured extraction from documents via LLMs",
	Long: `Docsift sends a document and a natural-language extraction prompt to an
LLM and prints the extracted facts as JSON.

The output is a single object holding the extracted items (with source
citations), the model that produced them, and token usage - suitable for
piping into other tools.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docsift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", ".env", "env file merged into the environment; existing variables win",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose, "verbose", false, "log progress to stderr",
	)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the process logger. Stdout carries result JSON and
// stderr carries error JSON, so logging stays off unless asked for.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
