package model

import (
	"context"

	skemodel "github.com/reoring/skemodel"
	"github.com/reoring/skemodel/internal/reconcile"
)

// State is the position of an instance in the validation pipeline.
type State int

const (
	StateConstructed State = iota
	StatePreValidating
	StateValidating
	StateReconciling
	StatePostValidating
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StatePreValidating:
		return "pre-validating"
	case StateValidating:
		return "validating"
	case StateReconciling:
		return "reconciling"
	case StatePostValidating:
		return "post-validating"
	case StateSettled:
		return "settled"
	}
	return "unknown"
}

// State reports where the last (or current) Validate call is.
func (i *Instance) State() State { return i.state }

// Err returns the error the last Validate call settled with.
func (i *Instance) Err() error { return i.err }

// Issues returns the validation issues of the last pass, if it got that far.
func (i *Instance) Issues() skemodel.Issues {
	iss, _ := skemodel.AsIssues(i.err)
	return iss
}

// Validate runs the pipeline:
//
//	preValidate listeners -> schema validation (all issues) -> reconcile -> postValidate listeners
//
// A preValidate failure returns a *HookError at once: the schema is not
// consulted and the fields are left as they are. Otherwise the fields are
// reconciled with the outcome, so passing fields hold converted values and
// failing fields keep their input; validation issues surface as a
// *ValidationError. A postValidate failure replaces that error.
//
// Validate may be called repeatedly; unchanged fields converge to the same
// values.
func (i *Instance) Validate(ctx context.Context) error {
	mt := i.mt
	i.err = nil

	i.state = StatePreValidating
	if err := i.events.emit(ctx, EventPreValidate, i, mt); err != nil {
		return i.settle(err)
	}

	i.state = StateValidating
	sch, mask := mt.store.schema, mt.store.mask
	out := sch.Validate(ctx, i.fields, skemodel.ValidateOpt{FailFast: false})

	i.state = StateReconciling
	reconcile.Reconcile(i.fields, out.Value, out.Issues, mask)

	var verr error
	if len(out.Issues) > 0 {
		verr = &ValidationError{Type: mt.name, ID: i.id.String(), Issues: out.Issues}
	}
	// visible to postValidate listeners through Err/Issues
	i.err = verr

	i.state = StatePostValidating
	if err := i.events.emit(ctx, EventPostValidate, i, mt); err != nil {
		return i.settle(err)
	}
	return i.settle(verr)
}

// ValidateFunc is the callback form of Validate.
func (i *Instance) ValidateFunc(ctx context.Context, cb func(error)) {
	err := i.Validate(ctx)
	if cb != nil {
		cb(err)
	}
}

func (i *Instance) settle(err error) error {
	i.state = StateSettled
	i.err = err
	if err != nil {
		i.mt.log.Debug("validation settled", "id", i.id, "error", err)
	} else {
		i.mt.log.Debug("validation settled", "id", i.id)
	}
	return err
}
