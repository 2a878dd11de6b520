package dsl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/invopop/jsonschema"

	g "github.com/reoring/skemodel/dsl"
)

func TestJSONSchema_ObjectExport(t *testing.T) {
	s := g.Object().
		Field("name", g.String().Min(1).Describe("display name")).Required().
		Field("age", g.Int().Min(0)).Default(20).
		Field("tags", g.Array(g.String()).Max(5)).
		UnknownStrict().
		MustBuild()

	js := g.JSONSchema(s)
	if js.Type != "object" {
		t.Fatalf("type = %q", js.Type)
	}
	if diff := cmp.Diff([]string{"name"}, js.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if js.AdditionalProperties != jsonschema.FalseSchema {
		t.Fatalf("strict objects must close additionalProperties")
	}
	var keys []string
	for el := js.Properties.Oldest(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	if diff := cmp.Diff([]string{"age", "name", "tags"}, keys); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
	age, _ := js.Properties.Get("age")
	if age.Type != "integer" || age.Default != 20 || age.Minimum != "0" {
		t.Fatalf("unexpected age schema: %#v", age)
	}
	name, _ := js.Properties.Get("name")
	if name.MinLength == nil || *name.MinLength != 1 || name.Description != "display name" {
		t.Fatalf("unexpected name schema: %#v", name)
	}
	tags, _ := js.Properties.Get("tags")
	if tags.Items == nil || tags.Items.Type != "string" || tags.MaxItems == nil || *tags.MaxItems != 5 {
		t.Fatalf("unexpected tags schema: %#v", tags)
	}
}
