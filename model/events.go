package model

import "context"

// Event names a lifecycle notification.
type Event string

const (
	EventCreate       Event = "create"
	EventPreValidate  Event = "preValidate"
	EventPostValidate Event = "postValidate"
)

// Listener reacts to a lifecycle event. Listeners may mutate inst. A listener
// that needs to wait for work simply blocks; the pipeline does not advance
// until it returns. A non-nil error rejects the event.
type Listener func(ctx context.Context, inst *Instance, mt *ModelType) error

type binding struct {
	event Event
	fn    Listener
}

// listeners is an ordered registry of (event, listener) pairs. Each model type
// and each instance owns a separate one.
type listeners struct {
	entries []binding
}

func (l *listeners) on(ev Event, fn Listener) {
	if fn == nil {
		return
	}
	l.entries = append(l.entries, binding{event: ev, fn: fn})
}

// copy returns an independent registry holding the same bindings.
func (l *listeners) copy() *listeners {
	return &listeners{entries: append([]binding(nil), l.entries...)}
}

// emit calls the listeners bound to ev in registration order and stops at the
// first failure, which is returned as a *HookError.
func (l *listeners) emit(ctx context.Context, ev Event, inst *Instance, mt *ModelType) error {
	// iterate over a snapshot: listeners may register further listeners
	entries := append([]binding(nil), l.entries...)
	for _, b := range entries {
		if b.event != ev {
			continue
		}
		if err := ctx.Err(); err != nil {
			return &HookError{Event: ev, Err: err}
		}
		if err := b.fn(ctx, inst, mt); err != nil {
			return &HookError{Event: ev, Err: err}
		}
	}
	return nil
}
