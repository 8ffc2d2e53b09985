// Package fetch implements the ArticleFetcher and PrefixSearcher
// interfaces against a MediaWiki-compatible HTTP API.
// Each operation is one GET with its own short deadline; responses are
// XML envelopes parsed with etree.
package fetch

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/gaurav-prasanna/wikipipe/core"
)

const (
	// defaultTimeout caps one article or search operation. Slow wikis
	// are treated like unreachable ones rather than stalling a lookup.
	defaultTimeout   = 3 * time.Second
	defaultUserAgent = "wikipipe/1.0 (https://github.com/gaurav-prasanna/wikipipe)"

	// MaxTermLength is the longest query term (in runes) worth sending
	// to the API. Longer terms are fruitless anyway.
	MaxTermLength = 80

	// prefixSearchLimit bounds the number of titles one prefix search
	// returns.
	prefixSearchLimit = 40
)

// ErrNotFound reports that the API has no page for the queried term
// (the parse node is absent or carries the "0" revision sentinel).
var ErrNotFound = errors.New("page not found")

// ParseError reports a malformed XML response.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("XML parse error: %v at line %d", e.Err, e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client issues MediaWiki API requests.
type Client struct {
	client *http.Client
}

// New creates a Client with the default per-operation timeout.
func New() *Client {
	return NewWithTimeout(defaultTimeout)
}

// NewWithTimeout creates a Client whose operations are capped at d.
func NewWithTimeout(d time.Duration) *Client {
	return &Client{
		client: &http.Client{Timeout: d},
	}
}

// FetchArticle requests the rendered article for term and parses the
// XML envelope into a PageResult. Redirect resolution happens on the
// API side (the "redirects" parameter), so two terms may yield the
// same page identity.
func (c *Client) FetchArticle(ctx context.Context, endpoint, term string) (*core.PageResult, error) {
	v := url.Values{}
	v.Set("action", "parse")
	v.Set("prop", "text|revid|sections")
	v.Set("format", "xml")
	v.Set("redirects", "")
	v.Set("page", term)

	body, err := c.get(ctx, endpoint, v)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, wrapParseError(err)
	}

	parse := doc.FindElement("api/parse")
	if parse == nil {
		return nil, ErrNotFound
	}
	revID := parse.SelectAttrValue("revid", "")
	if revID == "" || revID == "0" {
		return nil, ErrNotFound
	}
	pageID, _ := strconv.ParseInt(parse.SelectAttrValue("pageid", ""), 10, 64)

	result := &core.PageResult{
		PageID: pageID,
		RevID:  revID,
	}
	if text := parse.SelectElement("text"); text != nil {
		result.HTML = text.Text()
	}
	if sections := parse.SelectElement("sections"); sections != nil {
		for _, s := range sections.SelectElements("s") {
			result.Sections = append(result.Sections, core.Section{
				TOCLevel:   s.SelectAttrValue("toclevel", ""),
				Anchor:     s.SelectAttrValue("anchor", ""),
				LinkAnchor: s.SelectAttrValue("linkAnchor", ""),
				Number:     s.SelectAttrValue("number", ""),
				Line:       s.SelectAttrValue("line", ""),
			})
		}
	}
	return result, nil
}

// PrefixSearch lists up to prefixSearchLimit page titles starting with
// prefix. Oversized prefixes yield an empty result without touching
// the network.
func (c *Client) PrefixSearch(ctx context.Context, endpoint, prefix string) ([]string, error) {
	if utf8.RuneCountInString(prefix) > MaxTermLength {
		return nil, nil
	}

	v := url.Values{}
	v.Set("action", "query")
	v.Set("list", "allpages")
	v.Set("aplimit", strconv.Itoa(prefixSearchLimit))
	v.Set("format", "xml")
	v.Set("apfrom", prefix)

	body, err := c.get(ctx, endpoint, v)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, wrapParseError(err)
	}

	var titles []string
	if pages := doc.FindElement("api/query/allpages"); pages != nil {
		for _, p := range pages.SelectElements("p") {
			titles = append(titles, p.SelectAttrValue("title", ""))
		}
	}
	return titles, nil
}

// get performs one API GET and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string, v url.Values) ([]byte, error) {
	reqURL := endpoint + "/api.php?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/xml,application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, reqURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// wrapParseError attaches the offending line when the underlying XML
// decoder reports one.
func wrapParseError(err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{Line: syn.Line, Err: err}
	}
	return &ParseError{Err: err}
}
