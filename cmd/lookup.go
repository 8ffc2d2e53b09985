// Package cmd — lookup command.
// Looks up a headword (plus optional alternate spellings) on one wiki,
// streams incremental progress while the article assembles, and writes
// the result in the selected export format.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gaurav-prasanna/wikipipe/core"
	"github.com/gaurav-prasanna/wikipipe/core/audio"
	"github.com/gaurav-prasanna/wikipipe/core/fetch"
	"github.com/gaurav-prasanna/wikipipe/core/output"
	"github.com/gaurav-prasanna/wikipipe/core/render"
	"github.com/gaurav-prasanna/wikipipe/lookup"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flagAlts      []string
	flagHTML      bool
	flagMarkdown  bool
	flagPDF       bool
	flagJSON      bool
	flagText      bool
	flagOutputDir string
	flagRelated   bool
	flagListAudio bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <term>",
	Short: "Look up an article and export it",
	Long: `Lookup fetches the article for a term (and any alternate spellings),
deduplicates redirected pages, rewrites the markup for offline viewing,
and writes the result in the selected format.

Examples:
  wikipipe lookup fauteuil --wiki https://fr.wiktionary.org/w --markdown
  wikipipe lookup colour --alt color --dict wiktionary --config wikis.json
  wikipipe lookup חתול --wiki https://he.wikipedia.org/w --rtl --html`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	addWikiFlags(lookupCmd)

	lookupCmd.Flags().StringArrayVar(&flagAlts, "alt", nil, "Alternate spelling (repeatable)")

	// Output format flags (mutually exclusive).
	lookupCmd.Flags().BoolVar(&flagHTML, "html", false, "Output the article HTML fragment (default)")
	lookupCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	lookupCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	lookupCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	lookupCmd.Flags().BoolVar(&flagText, "text", false, "Output plain text")

	lookupCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	lookupCmd.Flags().BoolVar(&flagRelated, "related", false, "Also list related article titles")
	lookupCmd.Flags().BoolVar(&flagListAudio, "list-audio", false, "Also list registered pronunciation assets")
}

func runLookup(cmd *cobra.Command, args []string) error {
	term := args[0]

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	wiki, err := resolveWiki()
	if err != nil {
		return err
	}

	log := newLogger()
	registry := audio.NewRegistry()

	dict, err := lookup.NewDictionary(wiki, fetch.New(), registry, log)
	if err != nil {
		return err
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	// Ctrl-C cancels the in-flight lookup.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := dict.Lookup(ctx, term, flagAlts)
	go func() {
		<-ctx.Done()
		req.Cancel()
	}()

	// Follow incremental progress until the request finishes.
wait:
	for {
		select {
		case <-req.Done():
			break wait
		case <-req.Updates():
			fmt.Fprintf(os.Stderr, "… %d bytes assembled\n", len(req.Snapshot()))
		}
	}

	if !req.HasData() {
		if msg := req.Err(); msg != "" {
			return fmt.Errorf("lookup failed: %s", msg)
		}
		fmt.Fprintf(os.Stdout, "No article found for %q on %s\n", term, dict.Name())
		return nil
	}
	if msg := req.Err(); msg != "" {
		// Partial success: some terms failed, the rest assembled fine.
		fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
	}

	articleHTML := string(req.Snapshot())
	meta := core.ArticleMetadata{
		Term:      term,
		Wiki:      dict.Name(),
		URL:       dict.URL(),
		RTL:       wiki.RTL,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := renderer.Render(articleHTML, meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	path, err := writer.Write(dict.Name(), term, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)

	if flagRelated {
		terms, err := lookup.ExtractRelatedTerms(articleHTML)
		if err != nil {
			return fmt.Errorf("extracting related terms: %w", err)
		}
		for _, t := range terms {
			fmt.Fprintf(os.Stdout, "related: %s\n", t)
		}
	}

	if flagListAudio {
		for _, a := range registry.Assets() {
			fmt.Fprintf(os.Stdout, "audio: %s\n", a.Ref)
		}
	}

	return nil
}

// selectRenderer creates the appropriate Renderer based on flags;
// exactly one format may be chosen, defaulting to the HTML fragment.
func selectRenderer() (core.Renderer, error) {
	formats := 0
	for _, f := range []bool{flagHTML, flagMarkdown, flagPDF, flagJSON, flagText} {
		if f {
			formats++
		}
	}
	if formats > 1 {
		return nil, fmt.Errorf("only one output format allowed per run (got %d)", formats)
	}

	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagText:
		return render.NewTextRenderer(), nil
	default:
		return render.NewHTMLRenderer(), nil
	}
}
