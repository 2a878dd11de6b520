package model

import (
	"maps"

	"github.com/reoring/skemodel/dsl"
)

// Extend composes other into mt with a fixed merge policy per attribute:
//
//   - schema: concatenated, fields of other win on name collision;
//   - plugins: other's plugins are registered again on mt, except those whose
//     name mt has already applied;
//   - methods and meta: other's entries override mt's;
//   - type name, listeners and key mask: never copied (the mask is
//     re-derived from the merged schema).
//
// Listeners are left out because re-registering other's plugins recreates the
// ones those plugins installed.
func (mt *ModelType) Extend(other *ModelType) error {
	if other == nil || other.store.schema == nil {
		return &InvalidFactoryError{Value: other}
	}
	if err := mt.store.extend(other.store.schema); err != nil {
		return err
	}
	maps.Copy(mt.methods, other.methods)
	mt.meta.merge(other.meta)
	carried := 0
	for _, r := range append([]registration(nil), other.plugins...) {
		if mt.applied(r.name) {
			continue
		}
		if err := mt.apply(r); err != nil {
			return err
		}
		carried++
	}
	mt.log.Debug("extended", "from", other.name, "plugins", carried)
	return nil
}

// Mixin builds a new model type named name from an empty schema extended with
// each base in order; later bases win on collisions.
func Mixin(name string, bases ...*ModelType) (*ModelType, error) {
	mt, err := New(Options{Type: name, Schema: dsl.Fields{}})
	if err != nil {
		return nil, err
	}
	for _, b := range bases {
		if err := mt.Extend(b); err != nil {
			return nil, err
		}
	}
	return mt, nil
}
