package dsl

import (
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/i18n"
)

// Min sets an inclusive lower bound: the value for numbers, the rune length for
// strings, the item count for arrays.
func (r *Rule) Min(n float64) *Rule {
	cp := r.clone()
	cp.min = &n
	cp.checks = append(cp.checks, func(v any) skemodel.Issues {
		got, unit, ok := measure(v)
		if !ok || got >= n {
			return nil
		}
		code := skemodel.CodeTooSmall
		if unit != "value" {
			code = skemodel.CodeTooShort
		}
		return skemodel.Issues{boundIssue(code, "min", n, got)}
	})
	return cp
}

// Max sets an inclusive upper bound (see Min).
func (r *Rule) Max(n float64) *Rule {
	cp := r.clone()
	cp.max = &n
	cp.checks = append(cp.checks, func(v any) skemodel.Issues {
		got, unit, ok := measure(v)
		if !ok || got <= n {
			return nil
		}
		code := skemodel.CodeTooBig
		if unit != "value" {
			code = skemodel.CodeTooLong
		}
		return skemodel.Issues{boundIssue(code, "max", n, got)}
	})
	return cp
}

// Pattern requires string values to match expr. It panics when expr does not
// compile, like regexp.MustCompile.
func (r *Rule) Pattern(expr string) *Rule {
	re := regexp.MustCompile(expr)
	cp := r.clone()
	cp.pattern = re
	cp.checks = append(cp.checks, func(v any) skemodel.Issues {
		s, ok := v.(string)
		if !ok || re.MatchString(s) {
			return nil
		}
		return skemodel.Issues{{
			Path:    skemodel.Root,
			Code:    skemodel.CodePattern,
			Message: i18n.T(skemodel.CodePattern, map[string]string{"pattern": expr}),
			Params:  map[string]any{"pattern": expr},
		}}
	})
	return cp
}

// OneOf restricts string values to the allowed set.
func (r *Rule) OneOf(allowed ...string) *Rule {
	cp := r.clone()
	cp.enum = append(cp.enum, allowed...)
	set := append([]string(nil), cp.enum...)
	cp.checks = append(cp.checks, func(v any) skemodel.Issues {
		s, ok := v.(string)
		if !ok || slices.Contains(set, s) {
			return nil
		}
		return skemodel.Issues{{
			Path:    skemodel.Root,
			Code:    skemodel.CodeInvalidEnum,
			Message: i18n.T(skemodel.CodeInvalidEnum, map[string]string{"allowed": strings.Join(set, ", ")}),
			Params:  map[string]any{"allowed": set, "got": s},
		}}
	})
	return cp
}

// Trim removes surrounding whitespace from string values before checks run.
func (r *Rule) Trim() *Rule { return r.normalize(strings.TrimSpace) }

// Lowercase lowercases string values before checks run.
func (r *Rule) Lowercase() *Rule { return r.normalize(strings.ToLower) }

func (r *Rule) normalize(fn func(string) string) *Rule {
	cp := r.clone()
	prev := r.conv
	cp.conv = func(ctx context.Context, v any, opt skemodel.ValidateOpt) (any, skemodel.Issues) {
		out, iss := prev(ctx, v, opt)
		if len(iss) > 0 {
			return out, iss
		}
		if s, ok := out.(string); ok {
			return fn(s), nil
		}
		return out, nil
	}
	return cp
}

func measure(v any) (float64, string, bool) {
	switch t := v.(type) {
	case string:
		return float64(utf8.RuneCountInString(t)), "length", true
	case []any:
		return float64(len(t)), "items", true
	case int:
		return float64(t), "value", true
	case float64:
		return t, "value", true
	}
	return 0, "", false
}

func boundIssue(code, key string, limit, got float64) skemodel.Issue {
	return skemodel.Issue{
		Path:    skemodel.Root,
		Code:    code,
		Message: i18n.T(code, map[string]string{key: strconv.FormatFloat(limit, 'f', -1, 64)}),
		Params:  map[string]any{key: limit, "got": got},
	}
}
