package dsl

import (
	"context"
	"regexp"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/i18n"
)

// converter turns raw input into the rule's Go representation. On failure it
// returns the issues with root-relative paths.
type converter func(ctx context.Context, v any, opt skemodel.ValidateOpt) (any, skemodel.Issues)

// check inspects an already converted value.
type check func(v any) skemodel.Issues

// Rule is a scalar or array schema with presence modifiers. Rules are
// immutable once placed in an object: every modifier returns a copy.
type Rule struct {
	typ     string
	conv    converter
	checks  []check
	item    skemodel.Schema // array element schema
	format  string
	min     *float64
	max     *float64
	pattern *regexp.Regexp
	enum    []string

	required   bool
	nullable   bool
	hasDefault bool
	def        any
	desc       string
}

var _ skemodel.Schema = (*Rule)(nil)

func (r *Rule) clone() *Rule {
	cp := *r
	cp.checks = append([]check(nil), r.checks...)
	cp.enum = append([]string(nil), r.enum...)
	return &cp
}

// Required marks the rule as required when used as an object field.
func (r *Rule) Required() *Rule {
	cp := r.clone()
	cp.required = true
	return cp
}

// Optional clears the required flag.
func (r *Rule) Optional() *Rule {
	cp := r.clone()
	cp.required = false
	return cp
}

// Default sets the value used when the field is missing. The default is
// validated (and converted) like any other input.
func (r *Rule) Default(v any) *Rule {
	cp := r.clone()
	cp.hasDefault = true
	cp.def = v
	return cp
}

// Nullable accepts an explicit nil.
func (r *Rule) Nullable() *Rule {
	cp := r.clone()
	cp.nullable = true
	return cp
}

// Describe attaches a description exported to JSON Schema.
func (r *Rule) Describe(text string) *Rule {
	cp := r.clone()
	cp.desc = text
	return cp
}

// Validate implements skemodel.Schema.
func (r *Rule) Validate(ctx context.Context, v any, opt skemodel.ValidateOpt) skemodel.Outcome {
	if v == nil {
		if r.nullable {
			return skemodel.Outcome{}
		}
		return skemodel.Outcome{Issues: skemodel.Issues{invalidType(skemodel.Root, r.typ)}}
	}
	val, iss := r.conv(ctx, v, opt)
	if len(iss) > 0 {
		// keep the original input on failure
		return skemodel.Outcome{Value: v, Issues: iss}
	}
	for _, c := range r.checks {
		if more := c(val); len(more) > 0 {
			iss = skemodel.AppendIssues(iss, more...)
			if opt.FailFast {
				break
			}
		}
	}
	if len(iss) > 0 {
		return skemodel.Outcome{Value: v, Issues: iss}
	}
	return skemodel.Outcome{Value: val}
}

// Shape implements skemodel.Schema.
func (r *Rule) Shape() *skemodel.Shape {
	s := &skemodel.Shape{
		Kind:        skemodel.KindScalar,
		Type:        r.typ,
		Required:    r.required,
		Nullable:    r.nullable,
		HasDefault:  r.hasDefault,
		Default:     r.def,
		Description: r.desc,
		Format:      r.format,
		Min:         r.min,
		Max:         r.max,
		Enum:        append([]string(nil), r.enum...),
	}
	if r.pattern != nil {
		s.Pattern = r.pattern.String()
	}
	if r.item != nil {
		s.Kind = skemodel.KindArray
		s.Item = r.item.Shape()
	}
	return s
}

func invalidType(p skemodel.Path, expected string) skemodel.Issue {
	return skemodel.Issue{
		Path:    p,
		Code:    skemodel.CodeInvalidType,
		Message: i18n.T(skemodel.CodeInvalidType, map[string]string{"expected": expected}),
		Params:  map[string]any{"expected": expected},
	}
}
