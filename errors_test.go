package skemodel_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	skemodel "github.com/reoring/skemodel"
	g "github.com/reoring/skemodel/dsl"
)

// TestErrorModel_CollectVsFailFast_And_AsIssues compares report-all versus
// fail-fast validation and exercises the AsIssues and errors.As helpers.
func TestErrorModel_CollectVsFailFast_And_AsIssues(t *testing.T) {
	user := g.Object().
		Field("id", g.String()).Required().
		Field("email", g.String()).Required().
		UnknownStrict().
		MustBuild()
	in := map[string]any{"email": 1, "zzz": true}

	out := skemodel.Validate(context.Background(), user, in)
	err := out.Err()
	var iss skemodel.Issues
	if !errors.As(err, &iss) || len(iss) != 3 {
		t.Fatalf("expected three issues, got: %v", err)
	}

	fast := skemodel.Validate(skemodel.WithFailFast(context.Background(), true), user, in)
	if len(fast.Issues) != 1 {
		t.Fatalf("expected a single issue in fail-fast mode, got: %v", fast.Issues)
	}

	wrapped := fmt.Errorf("save user: %w", err)
	got, ok := skemodel.AsIssues(wrapped)
	if !ok || len(got) != 3 {
		t.Fatalf("AsIssues should see through wrapping, got %v", got)
	}
	if _, ok := skemodel.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no issues")
	}
}

func TestIssues_ErrorSummarizesFirstThree(t *testing.T) {
	iss := skemodel.Issues{
		skemodel.IssueAt(skemodel.Path{"a"}, skemodel.CodeRequired, "required"),
		skemodel.IssueAt(skemodel.Path{"b"}, skemodel.CodeInvalidType, "bad"),
		skemodel.IssueAt(skemodel.Path{"c", "0"}, skemodel.CodeTooSmall, "small", "min", 1),
		skemodel.IssueAt(skemodel.Root, skemodel.CodeCustom, "custom"),
	}
	want := "required at /a; invalid_type at /b; too_small at /c/0; ... (total 4)"
	if got := iss.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if iss[2].Params["min"] != 1 {
		t.Fatalf("params not recorded: %#v", iss[2].Params)
	}
	if diff := cmp.Diff(skemodel.Issues{iss[3]}, iss.At(skemodel.Root), cmp.Comparer(func(a, b skemodel.Path) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("At(root) mismatch (-want +got):\n%s", diff)
	}
}

func TestIssues_Rebase(t *testing.T) {
	iss := skemodel.Issues{skemodel.IssueAt(skemodel.Path{"zip"}, skemodel.CodePattern, "x")}
	re := iss.Rebase(skemodel.Path{"address"})
	if got := re[0].Path.Pointer(); got != "/address/zip" {
		t.Fatalf("rebased path = %s", got)
	}
	if got := iss[0].Path.Pointer(); got != "/zip" {
		t.Fatalf("Rebase must not modify the receiver, got %s", got)
	}
}

func TestOutcome_ErrNilWhenClean(t *testing.T) {
	out := skemodel.Validate(context.Background(), g.Int(), "3")
	if out.Err() != nil || !out.OK() || out.Value != 3 {
		t.Fatalf("unexpected outcome %#v", out)
	}
	if !strings.Contains(skemodel.UnknownPassthrough.String(), "passthrough") {
		t.Fatalf("policy name")
	}
}

func TestParseUnknownPolicy(t *testing.T) {
	cases := map[string]skemodel.UnknownPolicy{
		"":            skemodel.UnknownStrict,
		"strict":      skemodel.UnknownStrict,
		"strip":       skemodel.UnknownStrip,
		"passthrough": skemodel.UnknownPassthrough,
		"allow":       skemodel.UnknownPassthrough,
	}
	for in, want := range cases {
		got, ok := skemodel.ParseUnknownPolicy(in)
		if !ok || got != want {
			t.Fatalf("ParseUnknownPolicy(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := skemodel.ParseUnknownPolicy("loose"); ok {
		t.Fatalf("unknown names must be rejected")
	}
}
