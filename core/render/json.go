// Package render — JSON renderer.
// Emits the article in a structured JSON envelope: lookup metadata,
// the offline-safe HTML fragment, its Markdown conversion, and a plain
// text excerpt.
package render

import (
	"encoding/json"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gaurav-prasanna/wikipipe/core"
)

// articleJSON is the complete JSON output for one lookup.
type articleJSON struct {
	Metadata core.ArticleMetadata `json:"metadata"`
	Content  articleContent       `json:"content"`
}

type articleContent struct {
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
	Text     string `json:"text"`
}

// JSONRenderer produces structured JSON output from an article.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts the article and metadata into indented JSON.
func (r *JSONRenderer) Render(articleHTML string, meta core.ArticleMetadata) ([]byte, error) {
	markdown, err := htmltomarkdown.ConvertString(articleHTML)
	if err != nil {
		return nil, fmt.Errorf("converting article to markdown: %w", err)
	}

	out := articleJSON{
		Metadata: meta,
		Content: articleContent{
			HTML:     articleHTML,
			Markdown: markdown,
			Text:     PlainText(articleHTML),
		},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
