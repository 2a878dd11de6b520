package keymask

// Package keymask derives the index of schema-governed field paths from a
// schema's Shape. This package is internal and not part of the public API.

import (
	"sort"

	skemodel "github.com/reoring/skemodel"
)

// Mask is one node of the key mask. A leaf marks a governed field whatever its
// declared type; an object node maps child names to sub-masks and records how
// the object treats keys it does not declare.
type Mask struct {
	Leaf     bool
	Children map[string]*Mask
	Unknown  skemodel.UnknownPolicy
}

// Derive walks the declared field tree and returns the mask mirroring it.
// Only object shapes are recursed into; scalars and arrays become leaves.
// A nil shape yields nil.
func Derive(sh *skemodel.Shape) *Mask {
	if sh == nil {
		return nil
	}
	if sh.Kind != skemodel.KindObject {
		return &Mask{Leaf: true}
	}
	m := &Mask{Children: make(map[string]*Mask, len(sh.Fields)), Unknown: sh.Unknown}
	for name, child := range sh.Fields {
		if child == nil {
			m.Children[name] = &Mask{Leaf: true}
			continue
		}
		m.Children[name] = Derive(child)
	}
	return m
}

// Governs reports whether name is declared on this object node.
func (m *Mask) Governs(name string) bool {
	if m == nil || m.Leaf {
		return false
	}
	_, ok := m.Children[name]
	return ok
}

// Keys returns the child names in ascending order.
func (m *Mask) Keys() []string {
	if m == nil || m.Leaf {
		return nil
	}
	out := make([]string, 0, len(m.Children))
	for k := range m.Children {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Leaves lists every governed leaf path in ascending order.
func (m *Mask) Leaves() []skemodel.Path {
	var out []skemodel.Path
	m.walk(skemodel.Root, &out)
	return out
}

func (m *Mask) walk(at skemodel.Path, out *[]skemodel.Path) {
	if m == nil {
		return
	}
	if m.Leaf {
		*out = append(*out, at)
		return
	}
	for _, k := range m.Keys() {
		m.Children[k].walk(at.Child(k), out)
	}
}
