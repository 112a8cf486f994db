package ingest

import (
	"context"
	"fmt"
	"sort"

	"UniRecommender/internal/domain"
)

// Request carries everything a loader needs to read one configured source.
type Request struct {
	SourceName string
	Location   string
	Options    map[string]string
}

// Option returns the named option or fallback when it is unset.
func (r Request) Option(key, fallback string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Loader is a single source strategy (JSON file, rankings page, etc.).
type Loader interface {
	Name() string
	Load(ctx context.Context, req Request) ([]domain.University, error)
}

// Registry maps loader names to their implementations.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry builds a registry holding the given loaders.
func NewRegistry(loaders ...Loader) *Registry {
	r := &Registry{loaders: map[string]Loader{}}
	for _, l := range loaders {
		r.Register(l)
	}
	return r
}

// Register adds or replaces a loader implementation.
func (r *Registry) Register(loader Loader) {
	if r.loaders == nil {
		r.loaders = map[string]Loader{}
	}
	r.loaders[loader.Name()] = loader
}

// Resolve returns a loader by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Loader, error) {
	if loader, ok := r.loaders[name]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("loader %s is not registered", name)
}

// Names lists registered loaders in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
