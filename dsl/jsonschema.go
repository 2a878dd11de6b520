package dsl

import (
	"encoding/json"
	"strconv"

	"github.com/invopop/jsonschema"

	skemodel "github.com/reoring/skemodel"
)

// JSONSchema projects any schema into a JSON Schema document using its Shape.
// UnknownStrict maps to additionalProperties=false; UnknownStrip and
// UnknownPassthrough accept extra keys and therefore leave it open.
func JSONSchema(s skemodel.Schema) *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{}
	}
	out := fromShape(s.Shape())
	out.Version = jsonschema.Version
	return out
}

func fromShape(sh *skemodel.Shape) *jsonschema.Schema {
	if sh == nil {
		return &jsonschema.Schema{}
	}
	out := &jsonschema.Schema{Description: sh.Description, Format: sh.Format}
	if sh.Type != "any" {
		out.Type = sh.Type
	}
	if sh.HasDefault {
		out.Default = sh.Default
	}
	switch sh.Kind {
	case skemodel.KindObject:
		out.Properties = jsonschema.NewProperties()
		for _, k := range sh.Keys() {
			out.Properties.Set(k, fromShape(sh.Fields[k]))
		}
		out.Required = sh.RequiredKeys()
		if sh.Unknown == skemodel.UnknownStrict {
			out.AdditionalProperties = jsonschema.FalseSchema
		}
	case skemodel.KindArray:
		out.Items = fromShape(sh.Item)
		if sh.Min != nil {
			out.MinItems = uintPtr(*sh.Min)
		}
		if sh.Max != nil {
			out.MaxItems = uintPtr(*sh.Max)
		}
	default:
		switch sh.Type {
		case "string":
			if sh.Min != nil {
				out.MinLength = uintPtr(*sh.Min)
			}
			if sh.Max != nil {
				out.MaxLength = uintPtr(*sh.Max)
			}
			out.Pattern = sh.Pattern
			for _, e := range sh.Enum {
				out.Enum = append(out.Enum, e)
			}
		case "integer", "number":
			if sh.Min != nil {
				out.Minimum = number(*sh.Min)
			}
			if sh.Max != nil {
				out.Maximum = number(*sh.Max)
			}
		}
	}
	return out
}

func uintPtr(f float64) *uint64 {
	if f < 0 {
		f = 0
	}
	u := uint64(f)
	return &u
}

func number(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}
