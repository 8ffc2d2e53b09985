// Package audio collects pronunciation asset references discovered
// while rewriting articles. The registry is the concrete collaborator
// behind core.AudioRegistrar; hosts read the collected references
// after a lookup to offer playback or prefetching.
package audio

import "sync"

// Asset is one registered pronunciation reference.
type Asset struct {
	Ref    string
	DictID string
}

// Registry is a thread-safe AudioRegistrar that records references in
// registration order, dropping exact duplicates.
type Registry struct {
	mu     sync.Mutex
	assets []Asset
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register records (ref, dictID). It returns no splice-in markup; the
// transformer renders its own play link.
func (r *Registry) Register(ref, dictID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assets {
		if a.Ref == ref && a.DictID == dictID {
			return ""
		}
	}
	r.assets = append(r.assets, Asset{Ref: ref, DictID: dictID})
	return ""
}

// Assets returns a copy of the registered references in order.
func (r *Registry) Assets() []Asset {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Asset, len(r.assets))
	copy(out, r.assets)
	return out
}
