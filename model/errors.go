package model

import (
	"errors"
	"fmt"

	skemodel "github.com/reoring/skemodel"
)

var (
	// ErrDuplicateType is returned by Registry.Declare when the type name is taken.
	ErrDuplicateType = errors.New("skemodel: duplicate model type")
	// ErrUnknownMethod is returned by Instance.Call for undeclared methods.
	ErrUnknownMethod = errors.New("skemodel: unknown method")
)

// ConfigurationError reports malformed factory options.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("skemodel: invalid options: %s: %s", e.Field, e.Reason)
}

// ValidationError aggregates every issue found by one validation pass.
type ValidationError struct {
	Type   string
	ID     string
	Issues skemodel.Issues
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("skemodel: %s is invalid: %s", e.Type, e.Issues.Error())
}

// Unwrap exposes the issues so skemodel.AsIssues works on the error.
func (e *ValidationError) Unwrap() error { return e.Issues }

// InvalidPluginError reports a plugin value with no resolvable register
// function. Index is the position in the flattened batch.
type InvalidPluginError struct {
	Index int
	Value any
}

func (e *InvalidPluginError) Error() string {
	return fmt.Sprintf("skemodel: invalid plugin at position %d (%T)", e.Index, e.Value)
}

// InvalidFactoryError reports an Extend argument that is not a model type.
type InvalidFactoryError struct {
	Value any
}

func (e *InvalidFactoryError) Error() string {
	return fmt.Sprintf("skemodel: %T is not a model factory", e.Value)
}

// HookError wraps an error returned by a lifecycle listener.
type HookError struct {
	Event Event
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("skemodel: %s listener failed: %v", e.Event, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
