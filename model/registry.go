package model

import (
	"fmt"
	"maps"
	"slices"
)

// Registry is a naming scope for model types: type names are unique within
// one registry.
type Registry struct {
	types map[string]*ModelType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*ModelType{}}
}

// Declare builds a model type and records it under opts.Type.
func (r *Registry) Declare(opts Options) (*ModelType, error) {
	if _, ok := r.types[opts.Type]; ok && opts.Type != "" {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, opts.Type)
	}
	mt, err := New(opts)
	if err != nil {
		return nil, err
	}
	r.types[mt.name] = mt
	return mt, nil
}

// Lookup returns the model type registered under name.
func (r *Registry) Lookup(name string) (*ModelType, bool) {
	mt, ok := r.types[name]
	return mt, ok
}

// Types returns the declared type names in ascending order.
func (r *Registry) Types() []string { return slices.Sorted(maps.Keys(r.types)) }
