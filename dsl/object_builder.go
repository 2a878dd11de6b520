package dsl

import (
	"context"
	"fmt"
	"sort"

	skemodel "github.com/reoring/skemodel"
)

// fieldSpec is one declared object field.
type fieldSpec struct {
	schema     skemodel.Schema
	required   bool
	hasDefault bool
	def        any
}

type objectBuilder struct {
	fields        map[string]fieldSpec
	unknownPolicy skemodel.UnknownPolicy
	unknownSet    bool
	refines       []objRefine
	err           error
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]fieldSpec{},
		unknownPolicy: skemodel.UnknownStrict,
	}
}

// Field registers a field. Required and Default flags set on a *Rule are
// carried over; the returned step can override them.
func (b *objectBuilder) Field(name string, s skemodel.Schema) *fieldStep {
	if s == nil {
		if b.err == nil {
			b.err = fmt.Errorf("dsl: field %q has a nil schema", name)
		}
		return &fieldStep{b: b, name: name}
	}
	spec := fieldSpec{schema: s}
	if r, ok := s.(*Rule); ok {
		spec.required = r.required
		spec.hasDefault = r.hasDefault
		spec.def = r.def
	}
	b.fields[name] = spec
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	if spec, ok := f.b.fields[f.name]; ok {
		spec.required = true
		f.b.fields[f.name] = spec
	}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	if spec, ok := f.b.fields[f.name]; ok {
		spec.required = false
		f.b.fields[f.name] = spec
	}
	return f.b
}

// Default sets a default for the current field; it is validated through the
// field schema whenever it is applied.
func (f *fieldStep) Default(v any) *objectBuilder {
	if spec, ok := f.b.fields[f.name]; ok {
		spec.hasDefault = true
		spec.def = v
		f.b.fields[f.name] = spec
	}
	return f.b
}

func (f *fieldStep) Field(name string, s skemodel.Schema) *fieldStep { return f.b.Field(name, s) }
func (f *fieldStep) Require(names ...string) *objectBuilder          { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder                   { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder                    { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough() *objectBuilder              { return f.b.UnknownPassthrough() }
func (f *fieldStep) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	return f.b.Refine(name, fn)
}
func (f *fieldStep) Build() (skemodel.ObjectSchema, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() skemodel.ObjectSchema      { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		spec, ok := b.fields[n]
		if !ok {
			if b.err == nil {
				b.err = fmt.Errorf("dsl: required field %q is not declared", n)
			}
			continue
		}
		spec.required = true
		b.fields[n] = spec
	}
	return b
}

// UnknownStrict sets unknown policy to Strict.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	return b.unknown(skemodel.UnknownStrict)
}

// UnknownStrip sets unknown policy to Strip.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	return b.unknown(skemodel.UnknownStrip)
}

// UnknownPassthrough sets unknown policy to Passthrough.
func (b *objectBuilder) UnknownPassthrough() *objectBuilder {
	return b.unknown(skemodel.UnknownPassthrough)
}

// Unknown sets the unknown policy explicitly.
func (b *objectBuilder) Unknown(p skemodel.UnknownPolicy) *objectBuilder { return b.unknown(p) }

func (b *objectBuilder) unknown(p skemodel.UnknownPolicy) *objectBuilder {
	b.unknownPolicy = p
	b.unknownSet = true
	return b
}

// Refine adds an object-level refine function. It runs only when every field
// validated cleanly.
func (b *objectBuilder) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

// Build validates the builder and returns an ObjectSchema.
func (b *objectBuilder) Build() (skemodel.ObjectSchema, error) {
	if b.err != nil {
		return nil, b.err
	}
	fields := make(map[string]fieldSpec, len(b.fields))
	for k, v := range b.fields {
		fields[k] = v
	}
	return newObjectSchema(fields, b.unknownPolicy, b.unknownSet, append([]objRefine(nil), b.refines...)), nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() skemodel.ObjectSchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Fields is a plain field-name to schema mapping.
type Fields map[string]skemodel.Schema

// Keys wraps a plain mapping into a strict object schema.
func Keys(fields map[string]skemodel.Schema) (skemodel.ObjectSchema, error) {
	b := Object()
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.Field(k, fields[k])
	}
	return b.Build()
}
