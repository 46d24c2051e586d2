// Package cli implements the outliner command line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/rehierl/html-outliner/internal/config"
	"github.com/rehierl/html-outliner/internal/version"
	"github.com/spf13/cobra"
)

// ErrFindings is returned by lint when at least one finding was reported.
var ErrFindings = errors.New("lint findings reported")

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "outliner",
		Short: "Compute document outlines of HTML and Markdown files",
		Long: `outliner computes the section outline of an HTML document with the HTML5
outline algorithm. Markdown files are rendered to HTML first.

Outline options use the same keys as the server (see "outliner options").`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.Config{LogLevel: logLevel}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()})
			slog.SetDefault(slog.New(handler))
		},
	}
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("outliner %s\n", version.String()))
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newOutlineCmd(), newLintCmd(), newOptionsCmd())
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, ErrFindings) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		}
		os.Exit(1)
	}
}
