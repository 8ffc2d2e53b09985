package transform

// The individual rewrite passes. Each operates on the whole article
// string and returns it with one concern fixed; see Transformer.passes
// for the required order.

import (
	"regexp"
	"strings"
)

var (
	// reInternalLink matches root-relative hyperlink targets.
	reInternalLink = regexp.MustCompile(`<a\s+href="/([^"]+)"`)
	// reIndexPHP matches relative index.php references, with or without
	// a leading path segment.
	reIndexPHP = regexp.MustCompile(`<a\shref="(/(?:\w*/)*index\.php\?)`)
	// reAudioElement matches a whole <audio> element including content.
	reAudioElement = regexp.MustCompile(`(?is)<audio\s.+?</audio>`)
	// reAudioSource extracts the source reference inside an audio element.
	reAudioSource = regexp.MustCompile(`(?i)<source\s+src="([^"]+)`)
	// reBareLink matches link targets that are bare article titles:
	// no path separator, scheme colon, fragment, or closing quote.
	reBareLink = regexp.MustCompile(`<a\s+href="[^/:">#]+`)
	// reFileLink matches links into the file namespace (the colon was
	// percent-encoded by the internal-links pass).
	reFileLink = regexp.MustCompile(`(?i)<a\s+href="([^:/"]*file%3a[^/"]+")`)
	// reSrcset matches a srcset attribute with a relative first entry.
	reSrcset = regexp.MustCompile(` srcset\s*=\s*"/[^"]+"`)
)

// rewriteInternalLinks percent-encodes the namespace colon in internal
// hyperlink targets and moves any fragment anchor into the AnchorParam
// query parameter, truncating the path at the fragment boundary.
// External targets (anything containing "://") pass through untouched.
func (t *Transformer) rewriteInternalLinks(s string) string {
	return reInternalLink.ReplaceAllStringFunc(s, func(m string) string {
		link := reInternalLink.FindStringSubmatch(m)[1]

		if strings.Contains(link, "://") {
			return m // external link
		}

		link = strings.ReplaceAll(link, ":", "%3A")

		// A fragment at position 0 would be a bare in-page anchor, not
		// a link to another article.
		if n := strings.Index(link[1:], "#"); n >= 0 {
			n++
			anchor := strings.ReplaceAll(link[n+1:], "_", "%5F")
			link = link[:n] + "?" + AnchorParam + "=" + anchor
		}

		return `<a href="/` + link + `"`
	})
}

// absolutizeIndexPHP rewrites relative index.php references against
// the wiki's base URL.
func (t *Transformer) absolutizeIndexPHP(s string) string {
	return reIndexPHP.ReplaceAllString(s, `<a href="`+strings.TrimSuffix(t.baseStr, "/")+`$1`)
}

// replaceAudioElements substitutes each <audio> element with a play
// icon linking its first <source>, registering the reference with the
// audio collaborator. Elements without a source stay as they are.
func (t *Transformer) replaceAudioElements(s string) string {
	return reAudioElement.ReplaceAllStringFunc(s, func(m string) string {
		src := reAudioSource.FindStringSubmatch(m)
		if src == nil {
			return m
		}
		ref := src[1]
		return t.audio.Register(ref, t.dictID) + t.playLink(ref)
	})
}

// rewriteAudioURLs finds protocol-relative links matching the audio
// file pattern, registers the scheme-completed URL, and inserts a play
// icon anchor ahead of the (scheme-completed) original link.
func (t *Transformer) rewriteAudioURLs(s string) string {
	return t.audioRe.ReplaceAllStringFunc(s, func(m string) string {
		ref := t.audioRe.FindStringSubmatch(m)[1]
		full := t.base.Scheme + ":" + ref
		return t.audio.Register(full, t.dictID) + t.playLink(full) + `<a href="` + full + `"`
	})
}

// completeSchemes completes protocol-relative src/href/CSS-url
// references with the wiki's scheme and makes root-relative image
// sources absolute against the base URL.
func (t *Transformer) completeSchemes(s string) string {
	scheme := t.base.Scheme
	s = strings.ReplaceAll(s, ` src="//`, ` src="`+scheme+`://`)
	s = strings.ReplaceAll(s, `src="/`, `src="`+t.baseStr)
	s = strings.ReplaceAll(s, ` href="//`, ` href="`+scheme+`://`)
	s = strings.ReplaceAll(s, `url("//`, `url("`+scheme+`://`)
	return s
}

// stripWikiPath drops the conventional /wiki/ article path prefix so
// internal links resolve as bare titles.
func (t *Transformer) stripWikiPath(s string) string {
	return strings.ReplaceAll(s, `<a href="/wiki/`, `<a href="`)
}

// normalizeUnderscores replaces underscores with spaces inside bare
// internal link targets, mirroring the wiki title-to-display
// convention. Display text, external links, and anchors are excluded
// by the target pattern itself.
func (t *Transformer) normalizeUnderscores(s string) string {
	return reBareLink.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "_", " ")
	})
}

// rewriteFileLinks routes file-namespace links through the endpoint's
// index.php title lookup instead of the article-style path.
func (t *Transformer) rewriteFileLinks(s string) string {
	return reFileLink.ReplaceAllString(s, `<a href="`+t.endpoint+`/index.php?title=$1`)
}

// fixSrcset completes protocol-relative references inside srcset
// attribute values, scoped to the attribute value only.
func (t *Transformer) fixSrcset(s string) string {
	return reSrcset.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "//", t.base.Scheme+"://")
	})
}

// playLink renders the clickable play icon substituted for audio
// references.
func (t *Transformer) playLink(ref string) string {
	return `<a href="` + ref + `"><img src="` + t.playIcon + `" border="0" align="absmiddle" alt="Play"/></a>`
}
