package dynamic

import (
	"context"
	"sync"

	"github.com/goliatone/go-formrun/pkg/schema"
)

// Request describes a single option fetch: the declared endpoint and method
// plus the dependency field id and its current value, sent as
// {Endpoint}?{DependsOn}={Value}.
type Request struct {
	Endpoint  string
	Method    string
	DependsOn string
	Value     string
}

// Source performs the remote fetch and extracts the option strings from the
// response. pkg/client provides the HTTP-backed implementation; tests supply
// fakes.
type Source interface {
	FetchOptions(ctx context.Context, req Request) ([]string, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(ctx context.Context, req Request) ([]string, error)

// FetchOptions delegates to the underlying function.
func (fn SourceFunc) FetchOptions(ctx context.Context, req Request) ([]string, error) {
	return fn(ctx, req)
}

// Resolver resolves dynamic option lists for select fields. Results are
// cached by (endpoint, dependency value) so revisiting a previously seen
// value reuses the cached list. A per-field request sequence guarantees that
// a superseded fetch can never apply its result over a newer one.
type Resolver struct {
	mu     sync.Mutex
	source Source
	cache  map[string][]string
	seq    map[string]uint64
}

// NewResolver constructs a Resolver over the given source.
func NewResolver(source Source) *Resolver {
	return &Resolver{
		source: source,
		cache:  make(map[string][]string),
		seq:    make(map[string]uint64),
	}
}

// Resolve fetches (or returns cached) options for a field's dynamic
// descriptor under the current dependency value. The resolver is disabled
// while the dependency has no value: no fetch is attempted and no options are
// returned. A fetch failure yields an empty list together with the error; the
// field still renders, required-validation still applies.
func (r *Resolver) Resolve(ctx context.Context, dyn *schema.DynamicOptions, depValue string) ([]string, error) {
	if r == nil || dyn == nil || depValue == "" {
		return nil, nil
	}

	key := cacheKey(dyn, depValue)
	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	source := r.source
	r.mu.Unlock()

	if source == nil {
		return nil, nil
	}

	options, err := source.FetchOptions(ctx, Request{
		Endpoint:  dyn.Endpoint,
		Method:    dyn.Method,
		DependsOn: dyn.DependsOn,
		Value:     depValue,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[key] = options
	r.mu.Unlock()
	return options, nil
}

// Refresh resolves options on a new goroutine and hands the result to apply.
// A refresh triggered later for the same field supersedes this one: when the
// fetch settles after being superseded, the result is discarded and apply is
// never called. apply runs off the caller's goroutine.
func (r *Resolver) Refresh(ctx context.Context, fieldID string, dyn *schema.DynamicOptions, depValue string, apply func([]string, error)) {
	if r == nil || apply == nil {
		return
	}

	r.mu.Lock()
	r.seq[fieldID]++
	ticket := r.seq[fieldID]
	r.mu.Unlock()

	go func() {
		options, err := r.Resolve(ctx, dyn, depValue)

		r.mu.Lock()
		current := r.seq[fieldID]
		r.mu.Unlock()
		if ticket != current {
			return
		}
		apply(options, err)
	}()
}

// Cached returns the cached options for a descriptor/value pair without
// triggering a fetch. Interpreters read through Cached so a schema walk stays
// synchronous; missing entries are fetched out-of-band via Refresh.
func (r *Resolver) Cached(dyn *schema.DynamicOptions, depValue string) ([]string, bool) {
	if r == nil || dyn == nil || depValue == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	options, ok := r.cache[cacheKey(dyn, depValue)]
	return options, ok
}

// Invalidate drops the cached result for a descriptor/value pair, forcing the
// next Resolve to refetch.
func (r *Resolver) Invalidate(dyn *schema.DynamicOptions, depValue string) {
	if r == nil || dyn == nil {
		return
	}
	r.mu.Lock()
	delete(r.cache, cacheKey(dyn, depValue))
	r.mu.Unlock()
}

func cacheKey(dyn *schema.DynamicOptions, depValue string) string {
	return dyn.Endpoint + "?" + dyn.DependsOn + "=" + depValue
}
