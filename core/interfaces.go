// Package core defines the shared types and interfaces for wikipipe.
// Each stage of the lookup pipeline is a clean, testable interface.
package core

import "context"

// PageResult holds one successfully parsed article response from the
// MediaWiki API: the page identity, the rendered HTML body, and the
// flat section list used for table-of-contents synthesis.
type PageResult struct {
	PageID   int64
	RevID    string
	HTML     string
	Sections []Section
}

// Section describes one heading of an article as reported by the API's
// sections list. TOCLevel is kept as the raw attribute string so that
// non-numeric values can be detected downstream.
type Section struct {
	TOCLevel   string
	Anchor     string
	LinkAnchor string
	Number     string
	Line       string
}

// ArticleMetadata accompanies a transformed article into the export
// renderers.
type ArticleMetadata struct {
	Term      string `json:"term"`
	Wiki      string `json:"wiki"`
	URL       string `json:"url"`
	RTL       bool   `json:"rtl"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// ArticleFetcher retrieves and parses one article page per query term.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, endpoint, term string) (*PageResult, error)
}

// PrefixSearcher lists page titles starting with a prefix.
type PrefixSearcher interface {
	PrefixSearch(ctx context.Context, endpoint, prefix string) ([]string, error)
}

// AudioRegistrar is the side-channel that receives pronunciation asset
// references found while rewriting an article. Register returns markup
// to splice in ahead of the generated play link; implementations that
// only record the reference return "".
type AudioRegistrar interface {
	Register(ref, dictID string) string
}

// Renderer converts a transformed article (and its metadata) into a
// final export format.
type Renderer interface {
	Render(articleHTML string, meta ArticleMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
