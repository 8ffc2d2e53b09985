// Package cmd — search command.
// Lists page titles starting with a prefix; the simple sibling of
// lookup with no ordering or aggregation concerns.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gaurav-prasanna/wikipipe/core/fetch"
	"github.com/gaurav-prasanna/wikipipe/lookup"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <prefix>",
	Short: "List page titles starting with a prefix",
	Long: `Search queries the wiki's page index for titles starting with the
given prefix.

Examples:
  wikipipe search faut --wiki https://fr.wiktionary.org/w
  wikipipe search colo --dict wiktionary --config wikis.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addWikiFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	wiki, err := resolveWiki()
	if err != nil {
		return err
	}

	dict, err := lookup.NewDictionary(wiki, fetch.New(), nil, newLogger())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	titles, err := dict.PrefixSearch(ctx, prefix)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(titles) == 0 {
		fmt.Fprintf(os.Stdout, "No titles starting with %q on %s\n", prefix, dict.Name())
		return nil
	}
	for _, title := range titles {
		fmt.Fprintln(os.Stdout, title)
	}
	return nil
}
