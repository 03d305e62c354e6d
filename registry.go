package cipherset

import (
	"fmt"
	"sync"

	"github.com/cipherset/cipherset-go/monitoring"
)

// Registry maps type URLs to key resolvers and primitive kinds to wrappers,
// and optionally carries a monitoring client. It is explicit state: assembly
// code receives the registry it should use, and tests construct a fresh one
// per case instead of resetting anything shared.
//
// Registration happens at startup; lookups dominate afterwards, so the
// registry is guarded by a read-write mutex. Registering the identical
// instance twice is a no-op; registering a different instance for an
// occupied slot fails so that configuration bugs surface instead of one
// registration silently replacing another.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]KeyResolver
	wrappers  map[Kind]WrapperKind
	monitor   monitoring.Client
}

// NewRegistry returns an empty Registry. See the config package for a
// registry with everything in this module pre-registered.
func NewRegistry() *Registry {
	return &Registry{
		resolvers: make(map[string]KeyResolver),
		wrappers:  make(map[Kind]WrapperKind),
	}
}

// RegisterResolver registers a key resolver under its type URL.
func (r *Registry) RegisterResolver(res KeyResolver) error {
	if res == nil {
		return fmt.Errorf("cipherset: nil resolver")
	}
	url := res.TypeURL()
	if url == "" {
		return fmt.Errorf("cipherset: resolver has empty type URL")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.resolvers[url]; ok {
		if existing == res {
			return nil
		}
		return fmt.Errorf("%w: resolver for %q", ErrAlreadyRegistered, url)
	}
	r.resolvers[url] = res
	return nil
}

// ResolverFor returns the resolver serving the given type URL.
func (r *Registry) ResolverFor(typeURL string) (KeyResolver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resolvers[typeURL]
	if !ok {
		return nil, fmt.Errorf("%w: no resolver for %q", ErrNotRegistered, typeURL)
	}
	return res, nil
}

// RegisterWrapper registers a primitive wrapper under the kind it produces.
func (r *Registry) RegisterWrapper(w WrapperKind) error {
	if w == nil {
		return fmt.Errorf("cipherset: nil wrapper")
	}
	kind := w.Kind()
	if kind == KindUnknown {
		return fmt.Errorf("cipherset: wrapper has unknown kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.wrappers[kind]; ok {
		if existing == w {
			return nil
		}
		return fmt.Errorf("%w: wrapper for %v", ErrAlreadyRegistered, kind)
	}
	r.wrappers[kind] = w
	return nil
}

// WrapperFor returns the wrapper producing the given kind. Callers assert
// the result back to the concrete wrapper type of their primitive package.
func (r *Registry) WrapperFor(kind Kind) (WrapperKind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wrappers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no wrapper for %v", ErrNotRegistered, kind)
	}
	return w, nil
}

// SetMonitoringClient configures the client wrapped primitives obtain their
// loggers from. Without a client (or without handle annotations) primitives
// log to a no-op logger.
func (r *Registry) SetMonitoringClient(c monitoring.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.monitor = c
}

// MonitoringClient returns the configured client, or nil.
func (r *Registry) MonitoringClient() monitoring.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.monitor
}
