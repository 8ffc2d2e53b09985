// Package transform rewrites raw API article HTML into a self-contained
// fragment suitable for offline rendering inside a host viewer.
//
// The rewrite is an ordered chain of named, pure passes. The order is
// load-bearing: later passes assume the output shape of earlier ones
// (scheme completion must not run before the audio URL pass, the
// table of contents is spliced in last so no pass mangles it). Every
// pass leaves unmatched content untouched and is idempotent on its own
// output.
package transform

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/wikipipe/core"
	"github.com/gaurav-prasanna/wikipipe/core/toc"
)

// AnchorParam is the query parameter that carries a link's original
// fragment once the fragment is no longer a native browser anchor.
// Host viewers scroll to it after loading the target article.
const AnchorParam = "wpanchor"

const defaultPlayIcon = "icons/playsound.png"

// DefaultAudioPattern matches pronunciation files hosted on the
// Wikimedia upload host: protocol-relative .oga/.ogg references,
// optionally with a transcoded .mp3 suffix. The exact pattern is
// environment-specific and can be overridden per wiki.
var DefaultAudioPattern = regexp.MustCompile(
	`<a\s+href="(//upload\.wikimedia\.org/wikipedia/[^"'&]*\.og[ga](?:\.mp3)?)"`)

// Transformer rewrites article HTML for one dictionary. It holds no
// mutable state; a single Transformer may serve concurrent lookups.
type Transformer struct {
	endpoint string // API base as configured, e.g. "https://en.wiktionary.org/w"
	base     *url.URL
	baseStr  string // endpoint host with path "/", e.g. "https://en.wiktionary.org/"
	dictID   string
	rtl      bool
	audio    core.AudioRegistrar
	audioRe  *regexp.Regexp
	playIcon string
	log      *slog.Logger
}

// Option adjusts a Transformer at construction time.
type Option func(*Transformer)

// WithAudioPattern overrides the audio file URL pattern. The pattern
// must capture the protocol-relative reference as group 1.
func WithAudioPattern(re *regexp.Regexp) Option {
	return func(t *Transformer) { t.audioRe = re }
}

// WithPlayIcon overrides the icon displayed for substituted audio links.
func WithPlayIcon(path string) Option {
	return func(t *Transformer) { t.playIcon = path }
}

// WithLogger routes transform warnings to log.
func WithLogger(log *slog.Logger) Option {
	return func(t *Transformer) { t.log = log }
}

// New creates a Transformer for the given endpoint. dictID keys audio
// registration; rtl selects the directional wrapper. A nil registrar
// disables audio registration but still rewrites the markup.
func New(endpoint, dictID string, rtl bool, audio core.AudioRegistrar, opts ...Option) (*Transformer, error) {
	base, err := url.Parse(endpoint)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid wiki endpoint %q (must include scheme and host)", endpoint)
	}
	base.Path = "/"
	base.RawQuery = ""
	base.Fragment = ""

	if audio == nil {
		audio = nopRegistrar{}
	}

	t := &Transformer{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		base:     base,
		baseStr:  base.String(),
		dictID:   dictID,
		rtl:      rtl,
		audio:    audio,
		audioRe:  DefaultAudioPattern,
		playIcon: defaultPlayIcon,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// pass is one named rewrite step. apply must be pure and must not
// re-process its own output.
type pass struct {
	name  string
	apply func(string) string
}

// passes returns the rewrite chain in its required order.
func (t *Transformer) passes() []pass {
	return []pass{
		{"internal-links", t.rewriteInternalLinks},
		{"index-php", t.absolutizeIndexPHP},
		{"audio-elements", t.replaceAudioElements},
		{"audio-urls", t.rewriteAudioURLs},
		{"scheme-completion", t.completeSchemes},
		{"wiki-path", t.stripWikiPath},
		{"underscores", t.normalizeUnderscores},
		{"file-links", t.rewriteFileLinks},
		{"srcset", t.fixSrcset},
	}
}

// Transform runs the full rewrite chain over articleHTML, splices a
// synthesized table of contents if the response left an empty marker,
// and wraps the result in the dictionary's directional container.
func (t *Transformer) Transform(articleHTML string, sections []core.Section) string {
	for _, p := range t.passes() {
		articleHTML = p.apply(articleHTML)
	}

	// Last, so that none of the replacements above touch the generated
	// markup.
	articleHTML = toc.InsertIfEmpty(articleHTML, sections, t.log)

	if t.rtl {
		return `<div class="mwarticle" dir="rtl">` + articleHTML + `</div>`
	}
	return `<div class="mwarticle">` + articleHTML + `</div>`
}

// nopRegistrar drops audio references.
type nopRegistrar struct{}

func (nopRegistrar) Register(ref, dictID string) string { return "" }
