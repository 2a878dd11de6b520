// Package timestamps adds created_at/updated_at bookkeeping to a model type.
package timestamps

import (
	"context"
	"time"

	"github.com/reoring/skemodel/dsl"
	"github.com/reoring/skemodel/model"
)

const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

// Clock returns the current time.
type Clock func() time.Time

// Plugin extends the schema with both timestamp fields and stamps them before
// every validation: updated_at always, created_at only when missing.
//
// The "clock" option may carry a Clock (used by tests).
func Plugin() model.Plugin {
	return model.Plugin{Name: "timestamps", Register: model.RegisterFunc(register)}
}

func register(mt *model.ModelType, opts model.PluginOptions) error {
	now := Clock(time.Now)
	if c, ok := opts["clock"].(Clock); ok && c != nil {
		now = c
	}
	err := mt.ExtendSchema(dsl.Fields{
		CreatedAt: dsl.Time().Describe("creation time"),
		UpdatedAt: dsl.Time().Describe("last validation time"),
	})
	if err != nil {
		return err
	}
	mt.Listen(model.EventPreValidate, func(_ context.Context, inst *model.Instance, _ *model.ModelType) error {
		ts := now().UTC()
		if !inst.Has(CreatedAt) {
			inst.Set(CreatedAt, ts)
		}
		inst.Set(UpdatedAt, ts)
		return nil
	})
	mt.Meta().Set("timestamps", true)
	return nil
}
