// Package lookup coordinates article lookups against configured wikis.
// One Dictionary per enabled wiki issues the per-term network
// operations in parallel and reassembles the out-of-order completions
// into a single ordered article body.
package lookup

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/gaurav-prasanna/wikipipe/config"
	"github.com/gaurav-prasanna/wikipipe/core"
	"github.com/gaurav-prasanna/wikipipe/core/transform"
)

// Client is the network surface a Dictionary needs.
type Client interface {
	core.ArticleFetcher
	core.PrefixSearcher
}

// Dictionary represents one enabled wiki endpoint.
type Dictionary struct {
	name      string
	url       string
	id        string
	client    Client
	transform *transform.Transformer
	log       *slog.Logger
}

// NewDictionary builds a Dictionary from one config entry. The audio
// registrar receives pronunciation references found during article
// rewriting; it may be nil.
func NewDictionary(w config.Wiki, client Client, reg core.AudioRegistrar, log *slog.Logger) (*Dictionary, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	opts := []transform.Option{transform.WithLogger(log)}
	if w.AudioPattern != "" {
		re, err := regexp.Compile(w.AudioPattern)
		if err != nil {
			return nil, err
		}
		opts = append(opts, transform.WithAudioPattern(re))
	}

	tr, err := transform.New(w.URL, w.ID(), w.RTL, reg, opts...)
	if err != nil {
		return nil, err
	}

	return &Dictionary{
		name:      w.Name,
		url:       w.URL,
		id:        w.ID(),
		client:    client,
		transform: tr,
		log:       log.With("wiki", w.Name),
	}, nil
}

// NewDictionaries builds a Dictionary for every enabled config entry.
func NewDictionaries(wikis []config.Wiki, client Client, reg core.AudioRegistrar, log *slog.Logger) ([]*Dictionary, error) {
	var dicts []*Dictionary
	for _, w := range config.Enabled(wikis) {
		d, err := NewDictionary(w, client, reg, log)
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, d)
	}
	return dicts, nil
}

// Name returns the dictionary's display name.
func (d *Dictionary) Name() string { return d.name }

// URL returns the API base URL.
func (d *Dictionary) URL() string { return d.url }

// ID returns the stable endpoint identity used for audio registration.
func (d *Dictionary) ID() string { return d.id }

// PrefixSearch lists page titles starting with prefix. Cancellation
// via ctx simply discards the in-flight operation.
func (d *Dictionary) PrefixSearch(ctx context.Context, prefix string) ([]string, error) {
	return d.client.PrefixSearch(ctx, d.url, prefix)
}
