package dsl

import (
	"context"
	"fmt"
	"sort"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/i18n"
)

type objectSchema struct {
	fields        map[string]fieldSpec
	unknownPolicy skemodel.UnknownPolicy
	unknownSet    bool
	refines       []objRefine
	sortedKeys    []string
}

// Ensure objectSchema implements skemodel.ObjectSchema
var _ skemodel.ObjectSchema = (*objectSchema)(nil)

type objRefine struct {
	name string
	fn   func(context.Context, map[string]any) error
}

func newObjectSchema(fields map[string]fieldSpec, p skemodel.UnknownPolicy, set bool, refines []objRefine) *objectSchema {
	// cache sorted keys for deterministic order without per-validate sorting
	kfs := make([]string, 0, len(fields))
	for k := range fields {
		kfs = append(kfs, k)
	}
	sort.Strings(kfs)
	return &objectSchema{fields: fields, unknownPolicy: p, unknownSet: set, refines: refines, sortedKeys: kfs}
}

func (o *objectSchema) Unknown() skemodel.UnknownPolicy { return o.unknownPolicy }

// Validate converts every known field, applies defaults, enforces required
// keys and the unknown policy. The returned value holds the converted fields;
// a failing field keeps the value its own schema reported (its original input
// for scalars, a partially converted map for nested objects).
func (o *objectSchema) Validate(ctx context.Context, v any, opt skemodel.ValidateOpt) skemodel.Outcome {
	src, ok := v.(map[string]any)
	if !ok {
		return skemodel.Outcome{Value: v, Issues: skemodel.Issues{invalidType(skemodel.Root, "object")}}
	}
	out := make(map[string]any, len(src))
	iss := o.collectKnown(ctx, src, out, opt)
	if opt.FailFast && len(iss) > 0 {
		return skemodel.Outcome{Value: out, Issues: iss}
	}
	if more := o.collectUnknown(src, out); len(more) > 0 {
		iss = skemodel.AppendIssues(iss, more...)
	}
	if len(iss) > 0 {
		return skemodel.Outcome{Value: out, Issues: iss}
	}
	if more := o.refine(ctx, out, opt); len(more) > 0 {
		return skemodel.Outcome{Value: out, Issues: more}
	}
	return skemodel.Outcome{Value: out}
}

// collectKnown validates known fields, applies defaults, and records required
// violations.
func (o *objectSchema) collectKnown(ctx context.Context, src, out map[string]any, opt skemodel.ValidateOpt) skemodel.Issues {
	var iss skemodel.Issues
	for _, k := range o.sortedKeys {
		spec := o.fields[k]
		base := skemodel.Root.Child(k)
		if val, exists := src[k]; exists {
			res := spec.schema.Validate(ctx, val, opt)
			out[k] = res.Value
			if len(res.Issues) > 0 {
				iss = skemodel.AppendIssues(iss, res.Issues.Rebase(base)...)
				if opt.FailFast {
					return iss
				}
			}
			continue
		}
		// missing: apply default if provided; otherwise enforce required
		if spec.hasDefault {
			res := spec.schema.Validate(ctx, cloneValue(spec.def), opt)
			if len(res.Issues) > 0 {
				iss = skemodel.AppendIssues(iss, res.Issues.Rebase(base)...)
				if opt.FailFast {
					return iss
				}
				continue
			}
			out[k] = res.Value
			continue
		}
		if spec.required {
			iss = skemodel.AppendIssues(iss, skemodel.Issue{Path: base, Code: skemodel.CodeRequired, Message: i18n.T(skemodel.CodeRequired, nil), Hint: "required property missing"})
			if opt.FailFast {
				return iss
			}
		}
	}
	return iss
}

// collectUnknown processes unknown keys according to unknownPolicy and may
// write into out for passthrough.
func (o *objectSchema) collectUnknown(src, out map[string]any) skemodel.Issues {
	var iss skemodel.Issues
	// unknown keys in key-sorted order
	uks := make([]string, 0, len(src))
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	for _, k := range uks {
		switch o.unknownPolicy {
		case skemodel.UnknownStrict:
			iss = skemodel.AppendIssues(iss, skemodel.Issue{Path: skemodel.Root.Child(k), Code: skemodel.CodeUnknownKey, Message: i18n.T(skemodel.CodeUnknownKey, nil), Params: map[string]any{"key": k}})
		case skemodel.UnknownStrip:
			// drop
		case skemodel.UnknownPassthrough:
			out[k] = src[k]
		}
	}
	return iss
}

func (o *objectSchema) refine(ctx context.Context, v map[string]any, opt skemodel.ValidateOpt) skemodel.Issues {
	var iss skemodel.Issues
	for _, r := range o.refines {
		err := r.fn(ctx, v)
		if err == nil {
			continue
		}
		if i2, ok := skemodel.AsIssues(err); ok {
			iss = skemodel.AppendIssues(iss, i2...)
		} else {
			iss = skemodel.AppendIssues(iss, skemodel.Issue{Path: skemodel.Root, Code: skemodel.CodeCustom, Message: err.Error(), Cause: err, Params: map[string]any{"rule": r.name}})
		}
		if opt.FailFast {
			break
		}
	}
	return iss
}

// Shape implements skemodel.Schema.
func (o *objectSchema) Shape() *skemodel.Shape {
	s := &skemodel.Shape{
		Kind:    skemodel.KindObject,
		Type:    "object",
		Fields:  make(map[string]*skemodel.Shape, len(o.fields)),
		Unknown: o.unknownPolicy,
	}
	for k, spec := range o.fields {
		fs := spec.schema.Shape()
		if fs == nil {
			fs = &skemodel.Shape{Kind: skemodel.KindScalar, Type: "any"}
		}
		fs.Required = spec.required
		fs.HasDefault = spec.hasDefault
		fs.Default = spec.def
		s.Fields[k] = fs
	}
	return s
}

// Concat implements skemodel.ObjectSchema: fields of other override
// same-named fields of o, every other field of o is kept.
func (o *objectSchema) Concat(other skemodel.ObjectSchema) (skemodel.ObjectSchema, error) {
	return Concat(o, other)
}

// Concat composes a and b; see skemodel.ObjectSchema.Concat. Both must have
// been built by this package.
func Concat(a, b skemodel.ObjectSchema) (skemodel.ObjectSchema, error) {
	oa, ok := a.(*objectSchema)
	if !ok {
		return nil, fmt.Errorf("dsl: cannot concat schema of type %T", a)
	}
	ob, ok := b.(*objectSchema)
	if !ok {
		return nil, fmt.Errorf("dsl: cannot concat schema of type %T", b)
	}
	fields := make(map[string]fieldSpec, len(oa.fields)+len(ob.fields))
	for k, v := range oa.fields {
		fields[k] = v
	}
	for k, v := range ob.fields {
		fields[k] = v
	}
	policy, set := oa.unknownPolicy, oa.unknownSet
	if ob.unknownSet {
		policy, set = ob.unknownPolicy, true
	}
	refines := make([]objRefine, 0, len(oa.refines)+len(ob.refines))
	refines = append(refines, oa.refines...)
	refines = append(refines, ob.refines...)
	return newObjectSchema(fields, policy, set, refines), nil
}
