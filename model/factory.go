package model

import (
	"context"
	"log/slog"
	"maps"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/dsl"
)

// Options configures a model type.
type Options struct {
	// Type names the model family. Required.
	Type string
	// Schema is a skemodel.ObjectSchema, a dsl.Fields mapping or a
	// map[string]skemodel.Schema. Plain mappings become strict objects.
	Schema any
	// Plugins are registered, in order, once the type is built.
	Plugins []any
	// Eager validates every instance inside New.
	Eager bool
	// Logger receives debug records for registration and validation. nil
	// discards them.
	Logger *slog.Logger
}

// Method is an instance method added with ModelType.Method.
type Method func(ctx context.Context, inst *Instance, args ...any) (any, error)

// ModelType is the schema-bound constructor for a family of records.
//
// Setup (New, Register, Extend, ExtendSchema, ReplaceSchema, On, Listen,
// Method) is expected to finish before instances validate concurrently.
type ModelType struct {
	name    string
	store   schemaStore
	events  *listeners // type-level channel
	tmpl    *listeners // copied into every new instance
	methods map[string]Method
	meta    *Meta
	plugins []registration
	eager   bool
	log     *slog.Logger
}

// New builds a model type and registers Options.Plugins.
func New(opts Options) (*ModelType, error) {
	if opts.Type == "" {
		return nil, &ConfigurationError{Field: "type", Reason: "is required"}
	}
	sch, err := toObjectSchema(opts.Schema)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	mt := &ModelType{
		name:    opts.Type,
		events:  &listeners{},
		tmpl:    &listeners{},
		methods: map[string]Method{},
		meta:    newMeta(),
		eager:   opts.Eager,
		log:     log.With("model", opts.Type),
	}
	mt.store.set(sch)
	if len(opts.Plugins) > 0 {
		if err := mt.Register(opts.Plugins...); err != nil {
			return nil, err
		}
	}
	return mt, nil
}

// MustNew is like New but panics on error.
func MustNew(opts Options) *ModelType {
	mt, err := New(opts)
	if err != nil {
		panic(err)
	}
	return mt
}

// Name returns the type name.
func (mt *ModelType) Name() string { return mt.name }

// Schema returns the current object schema.
func (mt *ModelType) Schema() skemodel.ObjectSchema { return mt.store.schema }

// Governed lists the schema-governed leaf paths of the current key mask.
func (mt *ModelType) Governed() []skemodel.Path { return mt.store.mask.Leaves() }

// ExtendSchema composes fragment into the schema. Fields of fragment augment
// or override same-named fields; everything else is kept.
func (mt *ModelType) ExtendSchema(fragment any) error {
	sch, err := toObjectSchema(fragment)
	if err != nil {
		return err
	}
	if err := mt.store.extend(sch); err != nil {
		return err
	}
	mt.log.Debug("schema extended", "fields", sch.Shape().Keys())
	return nil
}

// ReplaceSchema swaps the schema wholesale.
func (mt *ModelType) ReplaceSchema(schema any) error {
	sch, err := toObjectSchema(schema)
	if err != nil {
		return err
	}
	mt.store.set(sch)
	mt.log.Debug("schema replaced", "fields", sch.Shape().Keys())
	return nil
}

// On subscribes fn to a type-level event. EventCreate is emitted here.
func (mt *ModelType) On(ev Event, fn Listener) { mt.events.on(ev, fn) }

// Listen subscribes fn to an instance-level event on every instance created
// from now on. Instances created earlier are not affected.
func (mt *ModelType) Listen(ev Event, fn Listener) { mt.tmpl.on(ev, fn) }

// Method adds (or replaces) an instance method.
func (mt *ModelType) Method(name string, fn Method) {
	if fn == nil {
		delete(mt.methods, name)
		return
	}
	mt.methods[name] = fn
}

// Meta returns the per-type metadata bag.
func (mt *ModelType) Meta() *Meta { return mt.meta }

// JSONSchema exports the current schema.
func (mt *ModelType) JSONSchema() *jsonschema.Schema {
	js := dsl.JSONSchema(mt.store.schema)
	js.Title = mt.name
	return js
}

// New creates an instance from a shallow copy of fields and emits EventCreate
// on the type-level channel. With Options.Eager the instance is validated too
// and the validation error, if any, is returned alongside the instance.
func (mt *ModelType) New(ctx context.Context, fields map[string]any) (*Instance, error) {
	inst := &Instance{
		id:     uuid.New(),
		mt:     mt,
		fields: make(map[string]any, len(fields)),
		events: mt.tmpl.copy(),
		state:  StateConstructed,
	}
	maps.Copy(inst.fields, fields)
	if err := mt.events.emit(ctx, EventCreate, inst, mt); err != nil {
		return nil, err
	}
	if mt.eager {
		return inst, inst.Validate(ctx)
	}
	return inst, nil
}
