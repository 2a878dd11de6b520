// Package loader declares model types from definition documents.
//
// A document lists models with their fields:
//
//	models:
//	  - type: User
//	    unknown: strip
//	    fields:
//	      name: {type: string, required: true, trim: true, min: 1}
//	      age:  {type: integer, default: 20, min: 0}
//	      tags: {type: array, items: {type: string}}
//	      address:
//	        type: object
//	        fields:
//	          zip: {type: string, pattern: '^\d{5}$'}
//	    rules:
//	      - {kind: present, fields: [address], when: {pointer: /age, op: ge, value: 18}}
//	      - {kind: unique_by, pointer: /tags, key: ""}
//
// YAML input may hold several documents separated by "---".
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/dsl"
	"github.com/reoring/skemodel/model"
	"github.com/reoring/skemodel/rules"
)

// Document is one definition document.
type Document struct {
	Models []ModelDef `mapstructure:"models"`
}

// ModelDef declares one model type.
type ModelDef struct {
	Type    string              `mapstructure:"type"`
	Unknown string              `mapstructure:"unknown"`
	Fields  map[string]FieldDef `mapstructure:"fields"`
	Rules   []RuleDef           `mapstructure:"rules"`
}

// RuleDef declares a record-level rule on an object. Kind is one of present,
// at_least_one or unique_by; When optionally guards it.
type RuleDef struct {
	Kind    string   `mapstructure:"kind"`
	Fields  []string `mapstructure:"fields"`  // present
	Pointer string   `mapstructure:"pointer"` // at_least_one, unique_by
	Key     string   `mapstructure:"key"`     // unique_by
	When    *CondDef `mapstructure:"when"`
}

// CondDef compares the value at Pointer with Value.
type CondDef struct {
	Pointer string `mapstructure:"pointer"`
	Op      string `mapstructure:"op"`
	Value   any    `mapstructure:"value"`
}

// FieldDef describes one field rule.
type FieldDef struct {
	Type        string              `mapstructure:"type"`
	Required    bool                `mapstructure:"required"`
	Default     any                 `mapstructure:"default"`
	Min         *float64            `mapstructure:"min"`
	Max         *float64            `mapstructure:"max"`
	Pattern     string              `mapstructure:"pattern"`
	Enum        []string            `mapstructure:"enum"`
	Trim        bool                `mapstructure:"trim"`
	Lowercase   bool                `mapstructure:"lowercase"`
	Nullable    bool                `mapstructure:"nullable"`
	Description string              `mapstructure:"description"`
	Unknown     string              `mapstructure:"unknown"` // object only
	Fields      map[string]FieldDef `mapstructure:"fields"`  // object only
	Rules       []RuleDef           `mapstructure:"rules"`   // object only
	Items       *FieldDef           `mapstructure:"items"`   // array only
}

// Options are applied to every declared model type.
type Options struct {
	Plugins []any
	Eager   bool
	Logger  *slog.Logger
}

// LoadYAML declares the models of every document in data into reg and returns
// them in document order.
func LoadYAML(reg *model.Registry, data []byte, opts ...Options) ([]*model.ModelType, error) {
	var out []*model.ModelType
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return out, fmt.Errorf("loader: yaml: %w", err)
		}
		if node == nil {
			continue
		}
		mts, err := load(reg, node, opts)
		out = append(out, mts...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// LoadJSON declares the models of a single JSON document into reg.
func LoadJSON(reg *model.Registry, data []byte, opts ...Options) ([]*model.ModelType, error) {
	var node any
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("loader: json: %w", err)
	}
	return load(reg, node, opts)
}

func load(reg *model.Registry, node any, opts []Options) ([]*model.ModelType, error) {
	var doc Document
	if err := mapstructure.Decode(node, &doc); err != nil {
		return nil, fmt.Errorf("loader: decode document: %w", err)
	}
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	out := make([]*model.ModelType, 0, len(doc.Models))
	for _, def := range doc.Models {
		sch, err := objectSchema(def.Fields, def.Unknown, def.Rules, skemodel.Root)
		if err != nil {
			return out, fmt.Errorf("loader: model %q: %w", def.Type, err)
		}
		mt, err := reg.Declare(model.Options{Type: def.Type, Schema: sch, Plugins: o.Plugins, Eager: o.Eager, Logger: o.Logger})
		if err != nil {
			return out, fmt.Errorf("loader: model %q: %w", def.Type, err)
		}
		out = append(out, mt)
	}
	return out, nil
}

// Schema builds the object schema described by fields.
func Schema(fields map[string]FieldDef, unknown string) (skemodel.ObjectSchema, error) {
	return objectSchema(fields, unknown, nil, skemodel.Root)
}

func objectSchema(fields map[string]FieldDef, unknown string, rs []RuleDef, at skemodel.Path) (skemodel.ObjectSchema, error) {
	policy, ok := skemodel.ParseUnknownPolicy(unknown)
	if !ok {
		return nil, fmt.Errorf("%s: unknown policy %q", at.Pointer(), unknown)
	}
	b := dsl.Object()
	if unknown != "" {
		b.Unknown(policy)
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		def := fields[name]
		s, err := def.schema(at.Child(name))
		if err != nil {
			return nil, err
		}
		step := b.Field(name, s)
		if def.Required {
			step.Required()
		}
		if def.Default != nil {
			step.Default(def.Default)
		}
	}
	for i, rd := range rs {
		r, err := rd.rule()
		if err != nil {
			return nil, fmt.Errorf("%s: rules[%d]: %w", at.Pointer(), i, err)
		}
		b.Refine(rd.Kind, rules.Refine(r))
	}
	return b.Build()
}

var ops = map[string]rules.Op{
	"eq": rules.Eq, "ne": rules.Ne,
	"lt": rules.Lt, "le": rules.Le,
	"gt": rules.Gt, "ge": rules.Ge,
}

func (d RuleDef) rule() (rules.Rule, error) {
	var r rules.Rule
	switch d.Kind {
	case "present":
		if len(d.Fields) == 0 {
			return nil, errors.New("present needs fields")
		}
		r = rules.Present(d.Fields...)
	case "at_least_one":
		if d.Pointer == "" {
			return nil, errors.New("at_least_one needs pointer")
		}
		r = rules.AtLeastOne(d.Pointer)
	case "unique_by":
		if d.Pointer == "" {
			return nil, errors.New("unique_by needs pointer")
		}
		r = rules.UniqueBy(d.Pointer, d.Key)
	default:
		return nil, fmt.Errorf("unknown rule kind %q", d.Kind)
	}
	if d.When == nil {
		return r, nil
	}
	op, ok := ops[d.When.Op]
	if !ok {
		return nil, fmt.Errorf("unknown op %q", d.When.Op)
	}
	return rules.If(d.When.Pointer, op, d.When.Value).Then(r), nil
}

func (f FieldDef) schema(at skemodel.Path) (skemodel.Schema, error) {
	var r *dsl.Rule
	switch f.Type {
	case "object":
		return objectSchema(f.Fields, f.Unknown, f.Rules, at)
	case "array":
		if f.Items == nil {
			return nil, fmt.Errorf("%s: array needs items", at.Pointer())
		}
		item, err := f.Items.schema(at.Child("items"))
		if err != nil {
			return nil, err
		}
		r = dsl.Array(item)
	case "string":
		r = dsl.String()
		if f.Trim {
			r = r.Trim()
		}
		if f.Lowercase {
			r = r.Lowercase()
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				return nil, fmt.Errorf("%s: pattern: %w", at.Pointer(), err)
			}
			r = r.Pattern(f.Pattern)
		}
		if len(f.Enum) > 0 {
			r = r.OneOf(f.Enum...)
		}
	case "integer", "int":
		r = dsl.Int()
	case "number", "float":
		r = dsl.Number()
	case "boolean", "bool":
		r = dsl.Bool()
	case "time", "date-time":
		r = dsl.Time()
	case "uuid":
		r = dsl.UUID()
	case "any", "":
		r = dsl.Any()
	default:
		return nil, fmt.Errorf("%s: unknown field type %q", at.Pointer(), f.Type)
	}
	if f.Min != nil {
		r = r.Min(*f.Min)
	}
	if f.Max != nil {
		r = r.Max(*f.Max)
	}
	if f.Nullable {
		r = r.Nullable()
	}
	if f.Description != "" {
		r = r.Describe(f.Description)
	}
	return r, nil
}
