package planctx

import (
	"reflect"
	"sort"
	"testing"
)

func TestNewCtxStartsWithOneOuterScope(t *testing.T) {
	ctx := New()
	if len(ctx.Scopes) != 1 {
		t.Fatalf("expected a single outermost scope, got %d", len(ctx.Scopes))
	}
	if ctx.CurrentScope().SourceCTE != "" {
		t.Fatal("the outermost scope has no source CTE")
	}
}

func TestNextCTECounterIsMonotonic(t *testing.T) {
	ctx := New()
	if got := ctx.NextCTECounter(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := ctx.NextCTECounter(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestRecordWhereProperty(t *testing.T) {
	ctx := New()
	ctx.RecordWhereProperty("u", "name")
	ctx.RecordWhereProperty("u", "age")
	ctx.RecordWhereProperty("f", "name")

	if !ctx.WherePropertyRequirements["u"]["name"] || !ctx.WherePropertyRequirements["u"]["age"] {
		t.Fatal("expected both u properties recorded")
	}
	if !ctx.WherePropertyRequirements["f"]["name"] {
		t.Fatal("expected f property recorded")
	}
}

func TestPushScopeAndInScope(t *testing.T) {
	ctx := New()
	ctx.Aliases["u"] = &TableCtx{Label: "User"}
	ctx.PushScope("cte_1", []string{"u"})

	if !ctx.InScope("u") {
		t.Fatal("expected u to be visible in the pushed scope")
	}
	if ctx.InScope("f") {
		t.Fatal("f was never exported into the pushed scope")
	}
	if ctx.CurrentScope().SourceCTE != "cte_1" {
		t.Fatalf("got source cte %q", ctx.CurrentScope().SourceCTE)
	}
}

func TestPushScopeDoesNotMutateOuterScope(t *testing.T) {
	ctx := New()
	ctx.Scopes[0].VisibleAliases["u"] = true
	ctx.PushScope("cte_1", []string{"f"})

	if ctx.InScope("u") {
		t.Fatal("the inner scope should not inherit the outer scope's visible aliases")
	}
	ctx.Scopes = ctx.Scopes[:1]
	if !ctx.InScope("u") {
		t.Fatal("popping back to the outer scope should restore its own visibility")
	}
}

func TestPropertyRequirementsRequireAndWildcard(t *testing.T) {
	r := NewPropertyRequirements()
	r.Require("u", "name")
	r.Require("u", "age")

	if r.NeedsAll("u") {
		t.Fatal("u has not been marked wildcard yet")
	}
	got := r.Properties("u")
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"age", "name"}) {
		t.Fatalf("got %v", got)
	}

	r.RequireAll("u")
	if !r.NeedsAll("u") {
		t.Fatal("expected u to be wildcard after RequireAll")
	}
	if got := r.Properties("u"); got != nil {
		t.Fatalf("a wildcard alias should report no discrete property list, got %v", got)
	}
}

func TestPropertyRequirementsUnknownAliasIsEmpty(t *testing.T) {
	r := NewPropertyRequirements()
	if r.NeedsAll("ghost") {
		t.Fatal("an alias never touched should not be wildcard")
	}
	if got := r.Properties("ghost"); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}
