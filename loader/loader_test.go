package loader_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/loader"
	"github.com/reoring/skemodel/model"
)

const usersYAML = `
models:
  - type: User
    unknown: strip
    fields:
      name: {type: string, required: true, trim: true, min: 1}
      age: {type: integer, default: 20, min: 0}
      role: {type: string, enum: [admin, member], lowercase: true}
      tags: {type: array, items: {type: string}, max: 3}
      address:
        type: object
        fields:
          zip: {type: string, pattern: '^\d{5}$'}
---
models:
  - type: Order
    fields:
      id: {type: uuid, required: true}
      total: {type: number, min: 0}
`

func TestLoadYAML_DeclaresEveryDocument(t *testing.T) {
	reg := model.NewRegistry()
	mts, err := loader.LoadYAML(reg, []byte(usersYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(mts) != 2 {
		t.Fatalf("declared %d types", len(mts))
	}
	if diff := cmp.Diff([]string{"Order", "User"}, reg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	user, _ := reg.Lookup("User")
	ctx := context.Background()
	inst, _ := user.New(ctx, map[string]any{
		"name":    "  Ann ",
		"role":    "ADMIN",
		"tags":    []any{"a"},
		"address": map[string]any{"zip": "12345"},
		"extra":   true,
	})
	if err := inst.Validate(ctx); err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := map[string]any{
		"name":    "Ann",
		"age":     20,
		"role":    "admin",
		"tags":    []any{"a"},
		"address": map[string]any{"zip": "12345"},
	}
	if diff := cmp.Diff(want, inst.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML_NestedIssues(t *testing.T) {
	reg := model.NewRegistry()
	if _, err := loader.LoadYAML(reg, []byte(usersYAML)); err != nil {
		t.Fatalf("load: %v", err)
	}
	user, _ := reg.Lookup("User")
	ctx := context.Background()
	inst, _ := user.New(ctx, map[string]any{"name": "x", "address": map[string]any{"zip": "1"}, "role": "guest"})
	_ = inst.Validate(ctx)
	var got []string
	for _, it := range inst.Issues() {
		got = append(got, it.Code+"@"+it.Path.Pointer())
	}
	if diff := cmp.Diff([]string{"pattern@/address/zip", "invalid_enum@/role"}, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	reg := model.NewRegistry()
	doc := `{"models":[{"type":"Point","unknown":"passthrough","fields":{"x":{"type":"number","required":true},"y":{"type":"number","default":0}}}]}`
	mts, err := loader.LoadJSON(reg, []byte(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sh := mts[0].Schema().Shape()
	if sh.Unknown != skemodel.UnknownPassthrough {
		t.Fatalf("unknown policy = %v", sh.Unknown)
	}
	if diff := cmp.Diff([]string{"x"}, sh.RequiredKeys()); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	ctx := context.Background()
	inst, _ := mts[0].New(ctx, map[string]any{"x": "1.5", "label": "p"})
	if err := inst.Validate(ctx); err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := map[string]any{"x": 1.5, "y": 0.0, "label": "p"}
	if diff := cmp.Diff(want, inst.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown type", "models: [{type: A, fields: {f: {type: blob}}}]", `unknown field type "blob"`},
		{"array without items", "models: [{type: A, fields: {f: {type: array}}}]", "array needs items"},
		{"bad pattern", "models: [{type: A, fields: {f: {type: string, pattern: '('}}}]", "pattern"},
		{"bad policy", "models: [{type: A, unknown: maybe, fields: {}}]", "unknown policy"},
		{"missing type name", "models: [{fields: {}}]", "type"},
		{"duplicate", "models: [{type: A, fields: {}}, {type: A, fields: {}}]", "duplicate"},
		{"malformed yaml", "models: [", "yaml"},
		{"unknown rule kind", "models: [{type: A, fields: {}, rules: [{kind: magic}]}]", `rules[0]: unknown rule kind "magic"`},
		{"present without fields", "models: [{type: A, fields: {}, rules: [{kind: present}]}]", "present needs fields"},
		{"bad rule op", "models: [{type: A, fields: {}, rules: [{kind: at_least_one, pointer: /a, when: {pointer: /b, op: approx}}]}]", `unknown op "approx"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.LoadYAML(model.NewRegistry(), []byte(tc.doc))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

const cartYAML = `
models:
  - type: Cart
    fields:
      age: {type: integer}
      guardian: {type: string}
      items:
        type: array
        items: {type: object, fields: {sku: {type: string}}}
    rules:
      - {kind: present, fields: [guardian], when: {pointer: /age, op: lt, value: 18}}
      - {kind: unique_by, pointer: /items, key: sku}
`

func TestLoadYAML_DeclaresRecordRules(t *testing.T) {
	reg := model.NewRegistry()
	mts, err := loader.LoadYAML(reg, []byte(cartYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()
	items := []any{map[string]any{"sku": "a"}, map[string]any{"sku": "a"}}
	inst, _ := mts[0].New(ctx, map[string]any{"age": "12", "items": items})
	if err := inst.Validate(ctx); err == nil {
		t.Fatalf("expected rule violations")
	}
	var got []string
	for _, it := range inst.Issues() {
		got = append(got, it.Code+"@"+it.Path.Pointer())
	}
	if diff := cmp.Diff([]string{"required@/guardian", "uniqueness@/items/1/sku"}, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if v, _ := inst.Get("age"); v != 12 {
		t.Fatalf("age should still be converted, got %#v", v)
	}

	adult, _ := mts[0].New(ctx, map[string]any{"age": 30, "items": []any{map[string]any{"sku": "a"}}})
	if err := adult.Validate(ctx); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoad_AppliesPlugins(t *testing.T) {
	var seen []string
	plugin := model.RegisterFunc(func(mt *model.ModelType, _ model.PluginOptions) error {
		seen = append(seen, mt.Name())
		return nil
	})
	_, err := loader.LoadYAML(model.NewRegistry(), []byte(usersYAML), loader.Options{Plugins: []any{plugin}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"User", "Order"}, seen); diff != "" {
		t.Fatalf("plugin targets mismatch (-want +got):\n%s", diff)
	}
}
