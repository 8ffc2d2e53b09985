// Package render provides export renderers for looked-up articles.
// Markdown is the canonical conversion target; the PDF and JSON
// renderers build on it.
package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gaurav-prasanna/wikipipe/core"
)

// MarkdownRenderer converts the transformed article HTML to Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the article fragment into Markdown bytes.
func (r *MarkdownRenderer) Render(articleHTML string, meta core.ArticleMetadata) ([]byte, error) {
	markdown, err := htmltomarkdown.ConvertString(articleHTML)
	if err != nil {
		return nil, fmt.Errorf("converting article to markdown: %w", err)
	}
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
