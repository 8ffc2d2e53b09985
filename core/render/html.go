// Package render — HTML renderer.
// The transformed fragment is already the canonical offline format, so
// this renderer is a passthrough.
package render

import "github.com/gaurav-prasanna/wikipipe/core"

// HTMLRenderer writes the article fragment as-is.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render returns the fragment as bytes (passthrough).
func (r *HTMLRenderer) Render(articleHTML string, meta core.ArticleMetadata) ([]byte, error) {
	return []byte(articleHTML), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
