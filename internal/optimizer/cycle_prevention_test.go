package optimizer

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
)

func TestInsertCyclePreventionSkipsRelsWithoutBranchMeta(t *testing.T) {
	rel := &lp.GraphRel{
		Alias: "r",
		Left:  &lp.GraphNode{Alias: "a"},
		Right: &lp.GraphNode{Alias: "b"},
	}
	out, err := InsertCyclePrevention(rel)
	if err != nil {
		t.Fatalf("InsertCyclePrevention: %v", err)
	}
	if out.(*lp.GraphRel).ConstraintsExpr != nil {
		t.Fatal("a relationship with no BranchMeta should not gain a guard")
	}
}

func TestInsertCyclePreventionAddsIdentityGuard(t *testing.T) {
	rel := &lp.GraphRel{
		Alias:      "r",
		Left:       &lp.GraphNode{Alias: "a"},
		Right:      &lp.GraphNode{Alias: "b"},
		BranchMeta: &lp.VLPMetadata{CypherStartAlias: "a", CypherEndAlias: "b"},
	}
	out, err := InsertCyclePrevention(rel)
	if err != nil {
		t.Fatalf("InsertCyclePrevention: %v", err)
	}
	guard := out.(*lp.GraphRel).ConstraintsExpr
	be, ok := guard.(ast.BinaryExpr)
	if !ok || be.Op != ast.OpNe {
		t.Fatalf("expected a single != guard, got %#v", guard)
	}
	left, ok := be.Left.(ast.PropertyAccess)
	if !ok || left.Target.(ast.Variable).Name != "a" || left.Property != "id" {
		t.Fatalf("expected a.id on the left, got %#v", be.Left)
	}
	right, ok := be.Right.(ast.PropertyAccess)
	if !ok || right.Target.(ast.Variable).Name != "b" || right.Property != "id" {
		t.Fatalf("expected b.id on the right, got %#v", be.Right)
	}
}

func TestInsertCyclePreventionAppendsToExistingConstraints(t *testing.T) {
	existing := ast.BinaryExpr{
		Op:    ast.OpEq,
		Left:  ast.PropertyAccess{Target: ast.Variable{Name: "r"}, Property: "kind"},
		Right: ast.LiteralExpr{Value: ast.Literal{Kind: ast.StringLiteral, S: "close"}},
	}
	rel := &lp.GraphRel{
		Alias:           "r",
		Left:            &lp.GraphNode{Alias: "a"},
		Right:           &lp.GraphNode{Alias: "b"},
		BranchMeta:      &lp.VLPMetadata{CypherStartAlias: "a", CypherEndAlias: "b"},
		ConstraintsExpr: existing,
	}
	out, err := InsertCyclePrevention(rel)
	if err != nil {
		t.Fatalf("InsertCyclePrevention: %v", err)
	}
	parts := exprutil.SplitConjuncts(out.(*lp.GraphRel).ConstraintsExpr)
	if len(parts) != 2 {
		t.Fatalf("expected the existing constraint and the new guard as two conjuncts, got %d", len(parts))
	}
}
