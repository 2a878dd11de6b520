package model

import (
	"maps"
	"slices"
)

// Meta is a per-type key/value bag for plugin bookkeeping.
type Meta struct {
	values map[string]any
}

func newMeta() *Meta { return &Meta{values: map[string]any{}} }

func (m *Meta) Get(key string) any { return m.values[key] }

func (m *Meta) Set(key string, v any) { m.values[key] = v }

func (m *Meta) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in ascending order.
func (m *Meta) Keys() []string { return slices.Sorted(maps.Keys(m.values)) }

func (m *Meta) merge(other *Meta) {
	if other == nil {
		return
	}
	maps.Copy(m.values, other.values)
}
