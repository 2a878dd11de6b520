// Package rules provides record-level checks for object schemas: conditional
// rules, collection cardinality and uniqueness. Rules plug into
// dsl.Object().Refine through Refine.
package rules

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/i18n"
)

// Rule inspects a converted record and reports issues at record-relative paths.
type Rule func(ctx context.Context, rec map[string]any) skemodel.Issues

// Refine adapts r to the refine signature used by dsl object builders.
func Refine(r Rule) func(context.Context, map[string]any) error {
	return func(ctx context.Context, rec map[string]any) error {
		if iss := r(ctx, rec); len(iss) > 0 {
			return iss
		}
		return nil
	}
}

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path skemodel.Path
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that compares the value at pointer (a JSON Pointer
// such as "/status") with want.
func If(pointer string, op Op, want any) Conditional {
	return Conditional{path: skemodel.ParsePointer(normalizePointer(pointer)), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	all := All(rules...)
	return func(ctx context.Context, rec map[string]any) skemodel.Issues {
		if !c.eval(rec) {
			return nil
		}
		return all(ctx, rec)
	}
}

func (c Conditional) eval(rec map[string]any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(rec) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(rec) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAt(rec, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Present reports a required issue for every named field missing from the
// record. Combine with If to express "b is required when a is set".
func Present(names ...string) Rule {
	return func(_ context.Context, rec map[string]any) skemodel.Issues {
		var out skemodel.Issues
		for _, n := range names {
			if _, ok := rec[n]; !ok {
				out = append(out, skemodel.Issue{
					Path:    skemodel.Path{n},
					Code:    skemodel.CodeRequired,
					Message: i18n.T(skemodel.CodeRequired, nil),
				})
			}
		}
		return out
	}
}

// AtLeastOne ensures the collection at pointer has at least 1 element.
func AtLeastOne(pointer string) Rule {
	p := skemodel.ParsePointer(normalizePointer(pointer))
	return func(_ context.Context, rec map[string]any) skemodel.Issues {
		val, ok := valueAt(rec, p)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Len() == 0 {
				return skemodel.Issues{skemodel.IssueAt(p, skemodel.CodeTooShort,
					i18n.T(skemodel.CodeTooShort, map[string]string{"min": "1"}), "min", 1)}
			}
		default:
			// not a collection; the field schema reports that
		}
		return nil
	}
}

// UniqueBy ensures elements of the collection at pointer have distinct values
// at key (a path relative to each element, e.g. "sku" or "/sku").
// Keys are compared by their fmt.Sprint form, so mixed-type keys may collide.
func UniqueBy(pointer, key string) Rule {
	cp := skemodel.ParsePointer(normalizePointer(pointer))
	kp := skemodel.ParsePointer(normalizePointer(key))
	return func(_ context.Context, rec map[string]any) skemodel.Issues {
		val, ok := valueAt(rec, cp)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(val)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil
		}
		seen := map[string]int{}
		var out skemodel.Issues
		for i := 0; i < rv.Len(); i++ {
			kv, ok := valueAt(rv.Index(i).Interface(), kp)
			if !ok {
				continue
			}
			k := fmt.Sprint(kv)
			if j, dup := seen[k]; dup {
				out = append(out, skemodel.IssueAt(cp.Index(i).Join(kp), skemodel.CodeUniqueness,
					i18n.T(skemodel.CodeUniqueness, nil), "first", j, "dup", i, "key", k))
				continue
			}
			seen[k] = i
		}
		return out
	}
}

// All executes every rule and concatenates the issues.
func All(rules ...Rule) Rule {
	return func(ctx context.Context, rec map[string]any) skemodel.Issues {
		var out skemodel.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r(ctx, rec)...)
		}
		return out
	}
}

// AnyOf succeeds if any rule reports no issues. When all fail it returns the
// branch with the fewest issues.
func AnyOf(rules ...Rule) Rule {
	return func(ctx context.Context, rec map[string]any) skemodel.Issues {
		var best skemodel.Issues
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(ctx, rec)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best, bestSet = iss, true
			}
		}
		return best
	}
}

// ------- helpers -------

func normalizePointer(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

// valueAt navigates maps and slices along p.
func valueAt(v any, p skemodel.Path) (any, bool) {
	cur := reflect.ValueOf(v)
	for _, seg := range p {
		if !cur.IsValid() {
			return nil, false
		}
		if cur.Kind() == reflect.Interface || cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		switch cur.Kind() {
		case reflect.Map:
			mv := cur.MapIndex(reflect.ValueOf(seg))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(idx)
		default:
			return nil, false
		}
	}
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return reflect.DeepEqual(cur, want)
	case Ne:
		return !reflect.DeepEqual(cur, want)
	case Lt, Le, Gt, Ge:
		a, ok1 := number(cur)
		b, ok2 := number(want)
		if !ok1 || !ok2 {
			return false
		}
		switch op {
		case Lt:
			return a < b
		case Le:
			return a <= b
		case Gt:
			return a > b
		case Ge:
			return a >= b
		}
	}
	return false
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
