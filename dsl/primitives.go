package dsl

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/i18n"
)

// String accepts string input only.
func String() *Rule {
	return &Rule{typ: "string", conv: func(_ context.Context, v any, _ skemodel.ValidateOpt) (any, skemodel.Issues) {
		s, ok := v.(string)
		if !ok {
			return nil, skemodel.Issues{invalidType(skemodel.Root, "string")}
		}
		return s, nil
	}}
}

// Int accepts Go integers, integral floats, json.Number and numeric strings,
// converting them to int.
func Int() *Rule {
	return &Rule{typ: "integer", conv: func(_ context.Context, v any, _ skemodel.ValidateOpt) (any, skemodel.Issues) {
		n, ok := toInt(v)
		if !ok {
			return nil, skemodel.Issues{invalidType(skemodel.Root, "integer")}
		}
		return n, nil
	}}
}

// Number accepts any numeric input (including numeric strings and
// json.Number), converting it to float64.
func Number() *Rule {
	return &Rule{typ: "number", conv: func(_ context.Context, v any, _ skemodel.ValidateOpt) (any, skemodel.Issues) {
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, skemodel.Issues{invalidType(skemodel.Root, "number")}
		}
		return f, nil
	}}
}

// Bool accepts bool input and the strings "true"/"false" (case-insensitive).
func Bool() *Rule {
	return &Rule{typ: "boolean", conv: func(_ context.Context, v any, _ skemodel.ValidateOpt) (any, skemodel.Issues) {
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, skemodel.Issues{invalidType(skemodel.Root, "boolean")}
	}}
}

// Time accepts time.Time values and RFC 3339 strings.
func Time() *Rule {
	return &Rule{typ: "string", format: "date-time", conv: func(_ context.Context, v any, _ skemodel.ValidateOpt) (any, skemodel.Issues) {
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
			if err != nil {
				return nil, skemodel.Issues{formatIssue("date-time", err)}
			}
			return ts, nil
		}
		return nil, skemodel.Issues{invalidType(skemodel.Root, "string")}
	}}
}

// UUID accepts UUID strings in any form uuid.Parse understands and normalizes
// them to the canonical lowercase hyphenated form.
func UUID() *Rule {
	return &Rule{typ: "string", format: "uuid", conv: func(_ context.Context, v any, _ skemodel.ValidateOpt) (any, skemodel.Issues) {
		switch t := v.(type) {
		case uuid.UUID:
			return t.String(), nil
		case string:
			id, err := uuid.Parse(t)
			if err != nil {
				return nil, skemodel.Issues{formatIssue("uuid", err)}
			}
			return id.String(), nil
		}
		return nil, skemodel.Issues{invalidType(skemodel.Root, "string")}
	}}
}

// Any accepts every non-nil value unchanged.
func Any() *Rule {
	return &Rule{typ: "any", conv: func(_ context.Context, v any, _ skemodel.ValidateOpt) (any, skemodel.Issues) { return v, nil }}
}

func formatIssue(format string, cause error) skemodel.Issue {
	return skemodel.Issue{
		Path:    skemodel.Root,
		Code:    skemodel.CodeInvalidFormat,
		Message: i18n.T(skemodel.CodeInvalidFormat, map[string]string{"format": format}),
		Params:  map[string]any{"format": format},
		Cause:   cause,
	}
}

// ---- conversions ----

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		if t < math.MinInt || t > math.MaxInt {
			return 0, false
		}
		return int(t), true
	case uint:
		if t > math.MaxInt {
			return 0, false
		}
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint64:
		if t > math.MaxInt {
			return 0, false
		}
		return int(t), true
	case float32:
		return integral(float64(t))
	case float64:
		return integral(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return toInt(i)
		}
		if f, err := t.Float64(); err == nil {
			return integral(f)
		}
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return toInt(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return integral(f)
		}
	}
	return 0, false
}

// maxExactFloat is the largest magnitude below which every integer has an
// exact float64 representation.
const maxExactFloat = 1 << 53

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > maxExactFloat || f < -maxExactFloat {
		return 0, false
	}
	return int(f), true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
