// Package cmd implements the CLI commands for wikipipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wikipipe",
	Short: "wikipipe — look up articles on MediaWiki-compatible wikis",
	Long: `wikipipe fetches encyclopedia articles from MediaWiki-compatible APIs,
reassembles multi-term lookups into one ordered article, and rewrites
the markup into a self-contained fragment for offline viewing.

Usage:
  wikipipe lookup <term> [flags]
  wikipipe search <prefix> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
