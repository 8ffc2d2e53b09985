// Package toc synthesizes a table-of-contents fragment from the flat
// section list of an API response.
//
// Since a MediaWiki UI redesign the table of contents is no longer part
// of an article's HTML; the API reply carries an empty placeholder
// instead. When that placeholder is present, the nested list markup is
// rebuilt here from the sections element and spliced in its place.
package toc

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/wikipipe/core"
)

// Marker is the empty table-of-contents indicator left in article HTML
// when the inline ToC is absent.
const Marker = `<meta property="mw:PageProp/toc" />`

// InsertIfEmpty searches html for the empty-ToC marker. If present and
// the response included sections, the marker is replaced with markup
// generated from them. Malformed section levels abort generation and
// remove the marker without a replacement; a missing section list only
// logs a warning.
func InsertIfEmpty(html string, sections []core.Section, log *slog.Logger) string {
	idx := strings.Index(html, Marker)
	if idx == -1 {
		return html // The ToC must be absent or nonempty, nothing to do.
	}

	if len(sections) == 0 {
		log.Warn("empty table of contents and missing sections element")
		return html
	}

	log.Debug("generating table of contents from the sections element")
	generated, _ := Generate(sections, log)
	return html[:idx] + generated + html[idx+len(Marker):]
}

// Generate builds the nested ToC list from sections. It returns
// ok=false (and an empty string) when a section level is non-numeric,
// nonpositive, or increases by more than one; guessing a structure
// from malformed input is never attempted.
func Generate(sections []core.Section, log *slog.Logger) (markup string, ok bool) {
	if len(sections) == 0 {
		return "", true
	}

	s := synthesizer{log: log}

	// Wiktionary's ToC style, which had also been Wikipedia's until the
	// UI redesign. Single quotes avoid escaping " in string literals.
	// The toctoggle elements and the lang/dir attributes of toctitle
	// are invisible and omitted.
	s.b.WriteString("<div id='toc' class='toc' role='navigation' aria-labelledby='mw-toc-heading'>" +
		"<div class='toctitle'><h2 id='mw-toc-heading'>Contents</h2></div>")

	for _, sec := range sections {
		if !s.openListItem(sec.TOCLevel) {
			return "", false
		}

		// linkAnchor carries the additional escaping appropriate for a
		// URL fragment; anchor is for getElementById-style lookup.
		s.b.WriteString("<a href='#")
		s.b.WriteString(sec.LinkAnchor)
		s.b.WriteString("'>")
		s.b.WriteString(sec.Number)
		s.b.WriteByte(' ')
		s.b.WriteString(sec.Line)
		s.b.WriteString("</a>")
	}

	s.closeListTags(1)
	// Close the first-level list tag and the toc div tag.
	s.b.WriteString("</ul>\n</div>")
	return s.b.String(), true
}

// synthesizer holds the one piece of state the algorithm needs: the
// currently open nesting level.
type synthesizer struct {
	b    strings.Builder
	prev int
	log  *slog.Logger
}

// openListItem adjusts open lists to levelString's depth and opens a
// new list item. It returns false when the level is unusable.
func (s *synthesizer) openListItem(levelString string) bool {
	level, err := strconv.Atoi(levelString)
	if err != nil {
		s.log.Warn("sections level is not an integer", "level", levelString)
		return false
	}
	if level <= 0 {
		s.log.Warn("unsupported nonpositive sections level", "level", level)
		return false
	}
	if level > s.prev+1 {
		s.log.Warn("unsupported sections level increase by more than one",
			"from", s.prev, "to", level)
		return false
	}

	if level == s.prev+1 {
		// The previous list item tag stays open so the deeper level's
		// list nests inside it.
		s.b.WriteString("\n<ul>\n")
		s.prev = level
	} else {
		s.closeListTags(level)
	}

	// The class="toclevel-N tocsection-M" attribute of <li> has no
	// visible effect and is omitted.
	s.b.WriteString("<li>")
	return true
}

// closeListTags closes the previous list item and any lists deeper
// than currentLevel.
func (s *synthesizer) closeListTags(currentLevel int) {
	s.b.WriteString("</li>\n")
	for currentLevel < s.prev {
		s.b.WriteString("</ul>\n</li>\n")
		s.prev--
	}
}
