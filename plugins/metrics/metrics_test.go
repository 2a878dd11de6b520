package metrics_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	g "github.com/reoring/skemodel/dsl"
	"github.com/reoring/skemodel/model"
	"github.com/reoring/skemodel/plugins/metrics"
)

func TestCollector_CountsResultsAndIssues(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	col, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	mt := model.MustNew(model.Options{
		Type:    "User",
		Schema:  g.Fields{"name": g.String().Required(), "age": g.Int()},
		Plugins: []any{col.Plugin()},
	})

	good, _ := mt.New(ctx, map[string]any{"name": "a", "age": "1"})
	bad, _ := mt.New(ctx, map[string]any{"age": "x"})
	_ = good.Validate(ctx)
	_ = bad.Validate(ctx)
	_ = bad.Validate(ctx)

	const want = `
# HELP skemodel_instances_created_total Total number of model instances created.
# TYPE skemodel_instances_created_total counter
skemodel_instances_created_total{model="User"} 2
# HELP skemodel_validation_issues_total Total number of validation issues by code.
# TYPE skemodel_validation_issues_total counter
skemodel_validation_issues_total{code="invalid_type",model="User"} 2
skemodel_validation_issues_total{code="required",model="User"} 2
# HELP skemodel_validations_total Total number of completed validations by result.
# TYPE skemodel_validations_total counter
skemodel_validations_total{model="User",result="invalid"} 2
skemodel_validations_total{model="User",result="ok"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(want),
		"skemodel_instances_created_total", "skemodel_validation_issues_total", "skemodel_validations_total")
	if err != nil {
		t.Fatal(err)
	}
}

func TestNew_ToleratesRepeatedRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := metrics.New(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	col, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("second registration should be tolerated: %v", err)
	}
	ctx := context.Background()
	mt := model.MustNew(model.Options{Type: "T", Schema: g.Fields{}, Plugins: []any{col}})
	_, _ = mt.New(ctx, nil)
	if got := testutil.CollectAndCount(reg, "skemodel_instances_created_total"); got != 1 {
		t.Fatalf("second collector should feed the registered series, got %d", got)
	}
}
