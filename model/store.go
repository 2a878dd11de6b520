package model

import (
	"fmt"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/dsl"
	"github.com/reoring/skemodel/internal/keymask"
)

// schemaStore keeps the schema and its key mask together. All writes go
// through set so the mask never lags behind the schema.
//
// The store is written during setup (New, plugin registration, Extend) and
// read by every Validate call; mutating it while instances validate on other
// goroutines is the caller's responsibility.
type schemaStore struct {
	schema skemodel.ObjectSchema
	mask   *keymask.Mask
}

func (s *schemaStore) set(sch skemodel.ObjectSchema) {
	s.schema = sch
	s.mask = keymask.Derive(sch.Shape())
}

func (s *schemaStore) extend(fragment skemodel.ObjectSchema) error {
	merged, err := s.schema.Concat(fragment)
	if err != nil {
		return err
	}
	s.set(merged)
	return nil
}

// toObjectSchema accepts a built object schema or a plain field mapping.
func toObjectSchema(def any) (skemodel.ObjectSchema, error) {
	switch t := def.(type) {
	case nil:
		return nil, &ConfigurationError{Field: "schema", Reason: "is required"}
	case skemodel.ObjectSchema:
		return t, nil
	case dsl.Fields:
		return keys(t)
	case map[string]skemodel.Schema:
		return keys(t)
	case map[string]*dsl.Rule:
		m := make(map[string]skemodel.Schema, len(t))
		for k, r := range t {
			m[k] = r
		}
		return keys(m)
	}
	return nil, &ConfigurationError{Field: "schema", Reason: fmt.Sprintf("%T is not an object schema or field mapping", def)}
}

func keys(m map[string]skemodel.Schema) (skemodel.ObjectSchema, error) {
	s, err := dsl.Keys(m)
	if err != nil {
		return nil, &ConfigurationError{Field: "schema", Reason: err.Error()}
	}
	return s, nil
}
