package reconcile

// Package reconcile merges a validation outcome back onto the record it was
// computed from. This package is internal and not part of the public API.

import (
	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/internal/keymask"
)

// errTree indexes issues by structured path.
type errTree struct {
	here     bool
	children map[string]*errTree
}

func buildTree(iss skemodel.Issues) *errTree {
	root := &errTree{}
	for _, it := range iss {
		n := root
		for _, seg := range it.Path {
			if n.children == nil {
				n.children = make(map[string]*errTree)
			}
			next, ok := n.children[seg]
			if !ok {
				next = &errTree{}
				n.children[seg] = next
			}
			n = next
		}
		n.here = true
	}
	return root
}

func (t *errTree) child(name string) *errTree {
	if t == nil {
		return nil
	}
	return t.children[name]
}

// Reconcile applies converted onto target following mask:
//
//   - a governed leaf without issues takes the converted value, or is deleted
//     when the converted candidate does not define it;
//   - a governed key with an issue at or below it (below a leaf, or exactly at
//     a nested object) keeps the original value untouched;
//   - nested objects are reconciled recursively with their sub-mask;
//   - undeclared keys are deleted unless the object passes unknown keys through.
//
// An issue at the root, such as a failed object refinement, protects no leaf.
// Running Reconcile again with the same inputs leaves target unchanged.
func Reconcile(target map[string]any, converted any, issues skemodel.Issues, mask *keymask.Mask) {
	if target == nil || mask == nil || mask.Leaf {
		return
	}
	conv, ok := converted.(map[string]any)
	if !ok {
		return
	}
	object(target, conv, buildTree(issues), mask)
}

func object(target, conv map[string]any, errs *errTree, mask *keymask.Mask) {
	for _, k := range mask.Keys() {
		sub := mask.Children[k]
		e := errs.child(k)
		if e != nil && (e.here || sub.Leaf) {
			continue
		}
		cv, has := conv[k]
		if !has {
			delete(target, k)
			continue
		}
		if sub.Leaf {
			target[k] = cv
			continue
		}
		cm, ok := cv.(map[string]any)
		if !ok {
			// e.g. an explicit nil accepted by a nullable object
			target[k] = cv
			continue
		}
		nested := make(map[string]any, len(cm))
		if tm, ok := target[k].(map[string]any); ok {
			for kk, vv := range tm {
				nested[kk] = vv
			}
		}
		object(nested, cm, e, sub)
		target[k] = nested
	}
	if mask.Unknown == skemodel.UnknownPassthrough {
		return
	}
	for k := range target {
		if !mask.Governs(k) {
			delete(target, k)
		}
	}
}
