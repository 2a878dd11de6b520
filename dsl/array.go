package dsl

import (
	"context"
	"reflect"

	skemodel "github.com/reoring/skemodel"
)

// Array returns an array schema with the given element schema. Any Go slice is
// accepted; the converted value is always []any. Element issues are reported
// at their index, and Min/Max bound the item count.
func Array(item skemodel.Schema) *Rule {
	return &Rule{typ: "array", item: item, conv: func(ctx context.Context, v any, opt skemodel.ValidateOpt) (any, skemodel.Issues) {
		src, ok := asSlice(v)
		if !ok {
			return nil, skemodel.Issues{invalidType(skemodel.Root, "array")}
		}
		out := make([]any, len(src))
		var iss skemodel.Issues
		for i, el := range src {
			o := item.Validate(ctx, el, opt)
			out[i] = o.Value
			if len(o.Issues) > 0 {
				iss = skemodel.AppendIssues(iss, o.Issues.Rebase(skemodel.Root.Index(i))...)
				if opt.FailFast {
					break
				}
			}
		}
		return out, iss
	}}
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
