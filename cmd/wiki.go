// Package cmd — shared wiki endpoint resolution and logging setup.
package cmd

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/gaurav-prasanna/wikipipe/config"
	"github.com/spf13/cobra"
)

// Flags shared by lookup and search.
var (
	flagWikiURL  string
	flagWikiName string
	flagRTL      bool
	flagConfig   string
	flagDict     string
	flagVerbose  bool
)

// addWikiFlags registers the endpoint selection flags on cmd.
func addWikiFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagWikiURL, "wiki", "", "Wiki API base URL (e.g. https://en.wiktionary.org/w)")
	cmd.Flags().StringVar(&flagWikiName, "name", "", "Display name for the wiki (default: host)")
	cmd.Flags().BoolVar(&flagRTL, "rtl", false, "Treat the wiki's language as right-to-left")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a wiki config file (default: $WIKIPIPE_CONFIG)")
	cmd.Flags().StringVar(&flagDict, "dict", "", "Name of a configured wiki to use")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// resolveWiki decides which endpoint to talk to: --dict selects an
// entry from the config file, otherwise --wiki names the endpoint
// directly.
func resolveWiki() (config.Wiki, error) {
	if flagDict != "" {
		path := config.Path(flagConfig)
		if path == "" {
			return config.Wiki{}, fmt.Errorf("--dict requires --config or WIKIPIPE_CONFIG")
		}
		wikis, err := config.Load(path)
		if err != nil {
			return config.Wiki{}, err
		}
		return config.Find(wikis, flagDict)
	}

	if flagWikiURL == "" {
		return config.Wiki{}, fmt.Errorf("either --wiki or --dict is required")
	}

	name := flagWikiName
	if name == "" {
		if parsed, err := url.Parse(flagWikiURL); err == nil {
			name = parsed.Host
		}
	}

	w := config.Wiki{
		Name:    name,
		URL:     flagWikiURL,
		Enabled: true,
		RTL:     flagRTL,
	}
	if err := w.Validate(); err != nil {
		return config.Wiki{}, err
	}
	return w, nil
}

// newLogger builds the CLI logger; --verbose enables debug lines.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
