package model

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// Instance is one record created by a ModelType. Field values live in a plain
// map; Validate converts them in place.
//
// An Instance is not safe for concurrent use.
type Instance struct {
	id     uuid.UUID
	mt     *ModelType
	fields map[string]any
	events *listeners // private to this instance
	state  State
	err    error
}

// ID returns the identifier assigned at construction.
func (i *Instance) ID() uuid.UUID { return i.id }

// Type returns the model type that created the instance.
func (i *Instance) Type() *ModelType { return i.mt }

// Get returns the value stored under name.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.fields[name]
	return v, ok
}

// Set stores v under name.
func (i *Instance) Set(name string, v any) { i.fields[name] = v }

// Delete removes name.
func (i *Instance) Delete(name string) { delete(i.fields, name) }

// Has reports whether name is set.
func (i *Instance) Has(name string) bool {
	_, ok := i.fields[name]
	return ok
}

// Fields returns a shallow copy of the field map.
func (i *Instance) Fields() map[string]any { return maps.Clone(i.fields) }

// Keys returns the field names in ascending order.
func (i *Instance) Keys() []string { return slices.Sorted(maps.Keys(i.fields)) }

// On subscribes fn to an event on this instance only.
func (i *Instance) On(ev Event, fn Listener) { i.events.on(ev, fn) }

// Call invokes a method added with ModelType.Method.
func (i *Instance) Call(ctx context.Context, name string, args ...any) (any, error) {
	fn, ok := i.mt.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMethod, i.mt.name, name)
	}
	return fn(ctx, i, args...)
}

// Decode copies the fields into out (a pointer to a struct or map) using
// mapstructure; struct fields are matched by their `json` tag.
func (i *Instance) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: false,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return dec.Decode(i.fields)
}

// MarshalJSON encodes the field map.
func (i *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.fields)
}
