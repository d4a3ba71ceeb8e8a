package optimizer

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/lp"
)

func boolExpr(b bool) ast.Expr {
	return ast.LiteralExpr{Value: ast.Literal{Kind: ast.BoolLiteral, B: b}}
}

func TestSimplifyConstantsAndWithTrueDropsIdentity(t *testing.T) {
	filter := &lp.Filter{
		Input: lp.Empty{},
		Predicate: ast.BinaryExpr{
			Op:    ast.OpAnd,
			Left:  boolExpr(true),
			Right: ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "active"},
		},
	}
	out, err := SimplifyConstants(filter)
	if err != nil {
		t.Fatalf("SimplifyConstants: %v", err)
	}
	got := out.(*lp.Filter).Predicate
	pa, ok := got.(ast.PropertyAccess)
	if !ok || pa.Property != "active" {
		t.Fatalf("expected the AND with true to collapse to the other operand, got %#v", got)
	}
}

func TestSimplifyConstantsAndWithFalseShortCircuits(t *testing.T) {
	filter := &lp.Filter{
		Input: lp.Empty{},
		Predicate: ast.BinaryExpr{
			Op:    ast.OpAnd,
			Left:  boolExpr(false),
			Right: ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "active"},
		},
	}
	out, err := SimplifyConstants(filter)
	if err != nil {
		t.Fatalf("SimplifyConstants: %v", err)
	}
	got := out.(*lp.Filter).Predicate
	lit, ok := got.(ast.LiteralExpr)
	if !ok || lit.Value.Kind != ast.BoolLiteral || lit.Value.B {
		t.Fatalf("expected AND with false to collapse to false, got %#v", got)
	}
}

func TestSimplifyConstantsOrWithTrueShortCircuits(t *testing.T) {
	filter := &lp.Filter{
		Input: lp.Empty{},
		Predicate: ast.BinaryExpr{
			Op:    ast.OpOr,
			Left:  ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "active"},
			Right: boolExpr(true),
		},
	}
	out, err := SimplifyConstants(filter)
	if err != nil {
		t.Fatalf("SimplifyConstants: %v", err)
	}
	got := out.(*lp.Filter).Predicate
	lit, ok := got.(ast.LiteralExpr)
	if !ok || !lit.Value.B {
		t.Fatalf("expected OR with true to collapse to true, got %#v", got)
	}
}

func TestSimplifyConstantsOrWithFalseDropsIdentity(t *testing.T) {
	filter := &lp.Filter{
		Input: lp.Empty{},
		Predicate: ast.BinaryExpr{
			Op:    ast.OpOr,
			Left:  ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "active"},
			Right: boolExpr(false),
		},
	}
	out, err := SimplifyConstants(filter)
	if err != nil {
		t.Fatalf("SimplifyConstants: %v", err)
	}
	got := out.(*lp.Filter).Predicate
	pa, ok := got.(ast.PropertyAccess)
	if !ok || pa.Property != "active" {
		t.Fatalf("expected OR with false to collapse to the other operand, got %#v", got)
	}
}

func TestSimplifyConstantsLeavesNonBooleanBinaryAlone(t *testing.T) {
	filter := &lp.Filter{
		Input: lp.Empty{},
		Predicate: ast.BinaryExpr{
			Op:    ast.OpEq,
			Left:  ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "id"},
			Right: ast.LiteralExpr{Value: ast.Literal{Kind: ast.IntLiteral, I: 1}},
		},
	}
	out, err := SimplifyConstants(filter)
	if err != nil {
		t.Fatalf("SimplifyConstants: %v", err)
	}
	be, ok := out.(*lp.Filter).Predicate.(ast.BinaryExpr)
	if !ok || be.Op != ast.OpEq {
		t.Fatalf("expected the equality predicate to survive unchanged, got %#v", out.(*lp.Filter).Predicate)
	}
}
