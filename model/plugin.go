package model

import (
	"fmt"
	"maps"
	"reflect"
	"runtime"
)

// PluginOptions is the option bag handed to a plugin's register function.
type PluginOptions map[string]any

// RegisterFunc mutates a model type at setup time.
type RegisterFunc func(mt *ModelType, opts PluginOptions) error

// Registrar is implemented by plugin values that register themselves.
type Registrar interface {
	Register(mt *ModelType, opts PluginOptions) error
}

// Plugin wraps a register function with a name and options. Register may be a
// RegisterFunc, a func(*ModelType, PluginOptions) error, a func(*ModelType)
// error, a Registrar, or another Plugin (one extra level only).
type Plugin struct {
	Name     string
	Register any
	Options  PluginOptions
}

// registration is a resolved plugin.
type registration struct {
	name string
	fn   RegisterFunc
	opts PluginOptions
}

// resolve reduces a plugin value to a single register function.
func resolve(p any) (registration, bool) { return resolveAt(p, 0) }

func resolveAt(p any, depth int) (registration, bool) {
	switch t := p.(type) {
	case RegisterFunc:
		if t == nil {
			return registration{}, false
		}
		return registration{name: funcName(t), fn: t}, true
	case func(*ModelType, PluginOptions) error:
		if t == nil {
			return registration{}, false
		}
		return registration{name: funcName(t), fn: t}, true
	case func(*ModelType) error:
		if t == nil {
			return registration{}, false
		}
		return registration{name: funcName(t), fn: func(mt *ModelType, _ PluginOptions) error { return t(mt) }}, true
	case Plugin:
		return resolvePlugin(t, depth)
	case *Plugin:
		if t == nil {
			return registration{}, false
		}
		return resolvePlugin(*t, depth)
	case Registrar:
		if v := reflect.ValueOf(t); v.Kind() == reflect.Pointer && v.IsNil() {
			return registration{}, false
		}
		return registration{name: fmt.Sprintf("%T", t), fn: t.Register}, true
	}
	return registration{}, false
}

func resolvePlugin(p Plugin, depth int) (registration, bool) {
	if depth > 1 {
		return registration{}, false
	}
	r, ok := resolveAt(p.Register, depth+1)
	if !ok {
		return registration{}, false
	}
	if p.Name != "" {
		r.name = p.Name
	}
	r.opts = mergeOptions(r.opts, p.Options)
	return r, true
}

// mergeOptions returns base overlaid with over; neither map is modified.
func mergeOptions(base, over PluginOptions) PluginOptions {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(PluginOptions, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}

func funcName(fn any) string {
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("%T", fn)
}

// flatten expands nested slices and arrays of plugins into one ordered list.
func flatten(in []any, out []any) []any {
	for _, p := range in {
		v := reflect.ValueOf(p)
		if p != nil && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
			nested := make([]any, v.Len())
			for i := range nested {
				nested[i] = v.Index(i).Interface()
			}
			out = flatten(nested, out)
			continue
		}
		out = append(out, p)
	}
	return out
}

// Register registers plugins in order. See RegisterWith.
func (mt *ModelType) Register(plugins ...any) error {
	return mt.RegisterWith(nil, plugins...)
}

// RegisterWith flattens plugins, resolves each one and invokes it exactly
// once with mt and opts (overlaid with the plugin's own Options).
//
// The batch stops at the first plugin that cannot be resolved
// (*InvalidPluginError) or whose register function fails. Plugins applied
// before that point stay applied.
func (mt *ModelType) RegisterWith(opts PluginOptions, plugins ...any) error {
	for i, p := range flatten(plugins, nil) {
		r, ok := resolve(p)
		if !ok {
			return &InvalidPluginError{Index: i, Value: p}
		}
		r.opts = mergeOptions(opts, r.opts)
		if err := mt.apply(r); err != nil {
			return err
		}
	}
	return nil
}

func (mt *ModelType) apply(r registration) error {
	if err := r.fn(mt, r.opts); err != nil {
		mt.log.Debug("plugin failed", "plugin", r.name, "error", err)
		return fmt.Errorf("skemodel: plugin %s: %w", r.name, err)
	}
	mt.plugins = append(mt.plugins, r)
	mt.log.Debug("plugin registered", "plugin", r.name)
	return nil
}

func (mt *ModelType) applied(name string) bool {
	for _, r := range mt.plugins {
		if r.name == name {
			return true
		}
	}
	return false
}

// Plugins returns the names of the plugins applied so far, in order.
func (mt *ModelType) Plugins() []string {
	out := make([]string, 0, len(mt.plugins))
	for _, r := range mt.plugins {
		out = append(out, r.name)
	}
	return out
}
