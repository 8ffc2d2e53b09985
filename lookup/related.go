package lookup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractRelatedTerms lists the distinct bare article titles linked
// from a transformed article, in document order. External links,
// in-page anchors, namespace pages, and already-absolutized URLs are
// skipped; what remains are titles the host can feed straight back
// into Lookup or PrefixSearch.
func ExtractRelatedTerms(articleHTML string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing article HTML: %w", err)
	}

	seen := make(map[string]bool)
	var terms []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || !isBareTitle(href) {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		terms = append(terms, href)
	})

	return terms, nil
}

// isBareTitle reports whether href is a plain article title left by
// the transform passes (no scheme, path, query, fragment, or encoded
// namespace separator).
func isBareTitle(href string) bool {
	if strings.ContainsAny(href, "/?#") {
		return false
	}
	if strings.Contains(href, ":") || strings.Contains(strings.ToLower(href), "%3a") {
		return false
	}
	return true
}
