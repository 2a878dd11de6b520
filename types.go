package skemodel

import "context"

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Preserve unknown keys unchanged.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownStrip:
		return "strip"
	case UnknownPassthrough:
		return "passthrough"
	}
	return "unknown"
}

// ParseUnknownPolicy maps "strict"/"strip"/"passthrough" to a policy. An empty
// name yields UnknownStrict.
func ParseUnknownPolicy(name string) (UnknownPolicy, bool) {
	switch name {
	case "", "strict":
		return UnknownStrict, true
	case "strip":
		return UnknownStrip, true
	case "passthrough", "allow":
		return UnknownPassthrough, true
	}
	return UnknownStrict, false
}

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	// FailFast stops at the first issue. Model types always validate with
	// FailFast disabled so every invalid path is reported.
	FailFast bool
}

// Outcome is the result of one Validate call: the converted candidate and the
// (possibly empty) ordered list of issues. Value is populated even when Issues
// is not empty; failing leaves keep their original input.
type Outcome struct {
	Value  any
	Issues Issues
}

// OK reports whether the outcome carries no issues.
func (o Outcome) OK() bool { return len(o.Issues) == 0 }

// Err returns the issues as an error, or nil.
func (o Outcome) Err() error {
	if len(o.Issues) == 0 {
		return nil
	}
	return o.Issues
}

// ---- Validate-time context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast validation.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current validation should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
