package embed

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Name identifies one of the two named singleton embedders: code (384-dim)
// or docs (768-dim). Both behave identically save for their dimension and
// chunking profile.
type Name string

const (
	Code Name = "code"
	Docs Name = "docs"
)

// Factory constructs an uninitialized Provider for a given Name.
type Factory func(name Name) (Provider, error)

// Registry holds explicit, named Provider singletons in place of the
// teacher's package-level globals, per the Design Notes. Initialization is
// memoized with singleflight so concurrent Initialize calls for the same
// name share one in-flight attempt; a failed attempt clears the group key
// so the next call retries.
type Registry struct {
	factory Factory

	mu        sync.RWMutex
	providers map[Name]Provider
	group     singleflight.Group
}

// NewRegistry constructs an empty Registry backed by factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory:   factory,
		providers: make(map[Name]Provider),
	}
}

// Get returns the initialized Provider for name, constructing and
// initializing it on first use. Concurrent callers for the same name
// block on one shared initialization.
func (r *Registry) Get(ctx context.Context, name Name, progress ProgressFunc) (Provider, error) {
	r.mu.RLock()
	if p, ok := r.providers[name]; ok {
		r.mu.RUnlock()
		return p, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.group.Do(string(name), func() (interface{}, error) {
		r.mu.RLock()
		if p, ok := r.providers[name]; ok {
			r.mu.RUnlock()
			return p, nil
		}
		r.mu.RUnlock()

		provider, err := r.factory(name)
		if err != nil {
			return nil, err
		}
		if err := provider.Initialize(ctx, progress); err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.providers[name] = provider
		r.mu.Unlock()
		return provider, nil
	})
	if err != nil {
		// The failed group key is consumed by singleflight.Do on return;
		// the next Get call for this name starts a fresh attempt, which
		// is exactly the "clear the handle on failure" contract spec §4.4
		// requires.
		return nil, err
	}
	return result.(Provider), nil
}

// Reset clears a named singleton (or all, if name is ""), giving tests an
// explicit re-entry point instead of relying on process restart.
func (r *Registry) Reset(name Name) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		r.providers = make(map[Name]Provider)
		return
	}
	delete(r.providers, name)
}
