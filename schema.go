package skemodel

import (
	"context"
	"sort"
)

// Schema validates and converts a candidate value.
type Schema interface {
	// Validate checks v and returns the converted candidate together with every
	// issue found (unless opt.FailFast is set). Issue paths are relative to v.
	Validate(ctx context.Context, v any, opt ValidateOpt) Outcome
	// Shape describes the declared structure of the schema.
	Shape() *Shape
}

// ObjectSchema is a Schema over map[string]any records that can be composed
// with further fragments.
type ObjectSchema interface {
	Schema
	// Concat returns a schema holding the fields of both; fields of other win
	// on name collision. Neither receiver nor other is modified.
	Concat(other ObjectSchema) (ObjectSchema, error)
	// Unknown reports the policy for keys that are not declared.
	Unknown() UnknownPolicy
}

// Validate runs s against v with report-all semantics unless ctx requests
// fail-fast.
func Validate(ctx context.Context, s Schema, v any) Outcome {
	return s.Validate(ctx, v, ValidateOpt{FailFast: IsFailFast(ctx)})
}

// ShapeKind identifies a Shape node type.
type ShapeKind int

const (
	KindScalar ShapeKind = iota
	KindArray
	KindObject
)

// Shape is the declared field tree of a schema (the "describe" view). Only
// object nodes carry Fields; array nodes carry Item.
type Shape struct {
	Kind        ShapeKind
	Type        string // "string"|"integer"|"number"|"boolean"|"time"|"uuid"|"any"|"array"|"object"
	Required    bool
	Nullable    bool
	HasDefault  bool
	Default     any
	Description string

	// Constraints (exported to JSON Schema). Min/Max bound the value for
	// numbers, the length for strings and the item count for arrays.
	Format  string
	Min     *float64
	Max     *float64
	Pattern string
	Enum    []string

	// Object
	Fields  map[string]*Shape
	Unknown UnknownPolicy

	// Array
	Item *Shape
}

// Keys returns the object's field names in ascending order.
func (s *Shape) Keys() []string {
	if s == nil || len(s.Fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RequiredKeys returns the names of required fields in ascending order.
func (s *Shape) RequiredKeys() []string {
	var out []string
	for _, k := range s.Keys() {
		if s.Fields[k].Required {
			out = append(out, k)
		}
	}
	return out
}
