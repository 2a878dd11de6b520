// Package metrics exports validation counters for model types to Prometheus.
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reoring/skemodel/model"
)

const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
)

// Collector holds the counters shared by every model type it is registered on.
// It implements model.Registrar.
type Collector struct {
	created     *prometheus.CounterVec
	validations *prometheus.CounterVec
	issues      *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skemodel_instances_created_total",
			Help: "Total number of model instances created.",
		}, []string{"model"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skemodel_validations_total",
			Help: "Total number of completed validations by result.",
		}, []string{"model", "result"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skemodel_validation_issues_total",
			Help: "Total number of validation issues by code.",
		}, []string{"model", "code"}),
	}
	var err error
	if c.created, err = register(reg, c.created); err != nil {
		return nil, err
	}
	if c.validations, err = register(reg, c.validations); err != nil {
		return nil, err
	}
	if c.issues, err = register(reg, c.issues); err != nil {
		return nil, err
	}
	return c, nil
}

// register adopts an identical collector that is already registered.
func register(reg prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return cv, nil
}

// Register implements model.Registrar.
func (c *Collector) Register(mt *model.ModelType, _ model.PluginOptions) error {
	name := mt.Name()
	mt.On(model.EventCreate, func(context.Context, *model.Instance, *model.ModelType) error {
		c.created.WithLabelValues(name).Inc()
		return nil
	})
	mt.Listen(model.EventPostValidate, func(_ context.Context, inst *model.Instance, _ *model.ModelType) error {
		iss := inst.Issues()
		if len(iss) == 0 {
			c.validations.WithLabelValues(name, ResultOK).Inc()
			return nil
		}
		c.validations.WithLabelValues(name, ResultInvalid).Inc()
		for _, it := range iss {
			c.issues.WithLabelValues(name, it.Code).Inc()
		}
		return nil
	})
	return nil
}

// Plugin wraps the collector for Options.Plugins.
func (c *Collector) Plugin() model.Plugin {
	return model.Plugin{Name: "metrics", Register: c}
}
