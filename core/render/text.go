// Package render — plain text extraction.
// Walks the article fragment with the x/net/html tokenizer-free parser
// and concatenates visible text, used by the text renderer and the
// JSON excerpt.
package render

import (
	"strings"

	"github.com/gaurav-prasanna/wikipipe/core"
	"golang.org/x/net/html"
)

// TextRenderer emits the article as plain UTF-8 text.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render extracts the visible text of the article.
func (r *TextRenderer) Render(articleHTML string, meta core.ArticleMetadata) ([]byte, error) {
	return []byte(PlainText(articleHTML)), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

// PlainText strips markup from an HTML fragment, separating block
// elements with blank lines. Script and style content is dropped.
func PlainText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// A fragment the parser rejects outright has no text to offer.
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n") {
					b.WriteString("\n\n")
				}
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Collapse runs of blank space left by the markup.
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}
