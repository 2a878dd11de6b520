package timestamps_test

import (
	"context"
	"testing"
	"time"

	g "github.com/reoring/skemodel/dsl"
	"github.com/reoring/skemodel/model"
	"github.com/reoring/skemodel/plugins/timestamps"
)

func TestPlugin_StampsBeforeValidation(t *testing.T) {
	ctx := context.Background()
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := timestamps.Clock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})
	mt := model.MustNew(model.Options{Type: "Note", Schema: g.Fields{"text": g.String().Required()}})
	if err := mt.RegisterWith(model.PluginOptions{"clock": clock}, timestamps.Plugin()); err != nil {
		t.Fatalf("register: %v", err)
	}

	inst, _ := mt.New(ctx, map[string]any{"text": "hi"})
	if err := inst.Validate(ctx); err != nil {
		t.Fatalf("validate: %v", err)
	}
	created, _ := inst.Get(timestamps.CreatedAt)
	first, _ := inst.Get(timestamps.UpdatedAt)
	if _, ok := created.(time.Time); !ok {
		t.Fatalf("created_at should be a time.Time, got %#v", created)
	}

	if err := inst.Validate(ctx); err != nil {
		t.Fatalf("validate: %v", err)
	}
	again, _ := inst.Get(timestamps.CreatedAt)
	second, _ := inst.Get(timestamps.UpdatedAt)
	if !again.(time.Time).Equal(created.(time.Time)) {
		t.Fatalf("created_at must not move: %v -> %v", created, again)
	}
	if !second.(time.Time).After(first.(time.Time)) {
		t.Fatalf("updated_at must advance: %v -> %v", first, second)
	}
	if !mt.Meta().Has("timestamps") {
		t.Fatalf("plugin should mark the type")
	}
}

func TestPlugin_AcceptsSuppliedCreatedAt(t *testing.T) {
	ctx := context.Background()
	mt := model.MustNew(model.Options{Type: "Note", Schema: g.Fields{}, Plugins: []any{timestamps.Plugin()}})
	inst, _ := mt.New(ctx, map[string]any{timestamps.CreatedAt: "2020-02-02T00:00:00Z"})
	if err := inst.Validate(ctx); err != nil {
		t.Fatalf("validate: %v", err)
	}
	v, _ := inst.Get(timestamps.CreatedAt)
	if ts, ok := v.(time.Time); !ok || ts.Year() != 2020 {
		t.Fatalf("supplied created_at should be parsed, got %#v", v)
	}
}
