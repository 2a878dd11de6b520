// Package dsl provides the schema library behind skemodel.
//
// Overview
//   - Scalars: String()/Int()/Number()/Bool()/Time()/UUID()/Any() return *Rule values.
//   - Modifiers: Required()/Optional()/Default(v)/Nullable()/Describe(text), plus
//     Min/Max/Pattern/OneOf/Trim/Lowercase constraints. Modifiers copy the rule.
//   - Array(item): array of any element schema; Min/Max bound the item count.
//   - Object(): builder with Field/Require/Unknown*/Refine then Build()/MustBuild().
//   - Keys(map) / Fields: wrap a plain field-name to schema mapping into a strict object.
//   - Concat(a, b): compose two object schemas; b wins on field name collision.
//   - JSONSchema(s): export through invopop/jsonschema.
//
// Conversion rules
//   - Int accepts Go integers, integral floats, json.Number and numeric strings ("30" -> 30).
//   - Number converts to float64 from the same inputs.
//   - Bool accepts "true"/"false" strings.
//   - Time parses RFC 3339; UUID normalizes to canonical lowercase form.
//
// Error model
//
// Validate never drops the candidate: the returned Outcome carries the converted
// value and every Issue (path relative to the validated value) unless fail-fast
// is requested. A failing scalar keeps its original input; a failing object
// keeps the conversions of its passing fields.
//
// Example
//
//	user := g.Object().
//	    Field("name", g.String().Trim().Min(1)).Required().
//	    Field("age", g.Int().Min(0)).Default(20).
//	    Field("tags", g.Array(g.String())).
//	    UnknownStrict().
//	    MustBuild()
//	out := user.Validate(ctx, map[string]any{"age": "30"}, skemodel.ValidateOpt{})
//	_ = out.Value  // map[string]any{"age": 30}
//	_ = out.Issues // required at /name
package dsl
