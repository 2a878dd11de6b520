package model_test

import (
	"context"
	"testing"

	g "github.com/reoring/skemodel/dsl"
	"github.com/reoring/skemodel/model"
)

func benchType(tb testing.TB) *model.ModelType {
	tb.Helper()
	mt, err := model.New(model.Options{
		Type: "Bench",
		Schema: g.Object().
			Field("id", g.String()).Required().
			Field("name", g.String().Trim()).
			Field("age", g.Int().Min(0)).Default(20).
			Field("tags", g.Array(g.String())).
			Field("address", g.Object().Field("zip", g.String()).Field("floor", g.Int()).MustBuild()).
			UnknownStrip().
			MustBuild(),
	})
	if err != nil {
		tb.Fatalf("model build failed: %v", err)
	}
	return mt
}

func benchFields() map[string]any {
	return map[string]any{
		"id":      "u_1",
		"name":    " alice ",
		"age":     "30",
		"tags":    []any{"a", "b", "c"},
		"address": map[string]any{"zip": "12345", "floor": "3"},
		"extra":   true,
	}
}

func BenchmarkValidate_Valid(b *testing.B) {
	ctx := context.Background()
	mt := benchType(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		inst, _ := mt.New(ctx, benchFields())
		if err := inst.Validate(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate_Revalidate(b *testing.B) {
	ctx := context.Background()
	inst, _ := benchType(b).New(ctx, benchFields())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = inst.Validate(ctx)
	}
}

func BenchmarkValidate_Invalid(b *testing.B) {
	ctx := context.Background()
	mt := benchType(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		inst, _ := mt.New(ctx, map[string]any{"age": "x", "tags": "nope"})
		if err := inst.Validate(ctx); err == nil {
			b.Fatal("expected error")
		}
	}
}
