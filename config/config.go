// Package config loads the wiki endpoint configuration.
// Endpoints live in a JSON file (one entry per wiki) whose path comes
// from a flag or the WIKIPIPE_CONFIG environment variable.
package config

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Wiki describes one configured MediaWiki endpoint.
type Wiki struct {
	// Name is the display name of the dictionary.
	Name string `json:"name"`
	// URL is the API base, e.g. "https://en.wiktionary.org/w".
	URL string `json:"url"`
	// Enabled controls whether a dictionary is built for this entry.
	Enabled bool `json:"enabled"`
	// RTL marks the target language as right-to-left.
	RTL bool `json:"rtl"`
	// AudioPattern optionally overrides the audio file URL pattern
	// used during article rewriting (a Go regular expression).
	AudioPattern string `json:"audio_pattern,omitempty"`
}

// ID returns a stable identity for the endpoint, used to key audio
// asset registration.
func (w Wiki) ID() string {
	h := sha256.Sum256([]byte(w.URL))
	return fmt.Sprintf("%x", h[:8])
}

// Validate checks that the entry can be used to build a dictionary.
func (w Wiki) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("wiki entry has no name")
	}
	parsed, err := url.Parse(w.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("wiki %q: invalid URL %q (must include scheme and host)", w.Name, w.URL)
	}
	return nil
}

// Path resolves the configuration file path: explicit argument first,
// then the WIKIPIPE_CONFIG environment variable.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv("WIKIPIPE_CONFIG")
}

// Load reads a JSON array of Wiki entries from path.
func Load(path string) ([]Wiki, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var wikis []Wiki
	if err := json.Unmarshal(data, &wikis); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	for _, w := range wikis {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	return wikis, nil
}

// Enabled filters the list down to enabled entries.
func Enabled(wikis []Wiki) []Wiki {
	var out []Wiki
	for _, w := range wikis {
		if w.Enabled {
			out = append(out, w)
		}
	}
	return out
}

// Find returns the enabled entry whose name matches (case-insensitive),
// or an error naming the available dictionaries.
func Find(wikis []Wiki, name string) (Wiki, error) {
	var names []string
	for _, w := range wikis {
		if !w.Enabled {
			continue
		}
		if strings.EqualFold(w.Name, name) {
			return w, nil
		}
		names = append(names, w.Name)
	}
	return Wiki{}, fmt.Errorf("no enabled wiki named %q (have: %s)", name, strings.Join(names, ", "))
}
