// Package skemodel provides:
//
// - A schema interface whose Validate always reports the converted value together with Issues
// - A stable error model via Issues (structured Path, code, message)
// - A declared-structure view (Shape) used to derive which field paths a schema governs
//
// On top of it, package model turns a schema into a model type whose instances validate,
// coerce, run lifecycle hooks and accept plugins.
//
// Design policy:
//   - Keep only the collaborator surface in the root package; the concrete schema library lives in dsl/.
//   - Put the key mask and reconciliation engine under internal/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := model.MustNew(model.Options{
//	    Type: "User",
//	    Schema: dsl.Fields{
//	        "name": dsl.String().Required(),
//	        "age":  dsl.Int().Default(20),
//	    },
//	})
//	u, _ := user.New(ctx, map[string]any{"age": "30"})
//	err := u.Validate(ctx) // name is required; age is now the int 30
package skemodel
