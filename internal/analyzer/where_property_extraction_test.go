package analyzer

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
)

func TestWherePropertyExtractionRecordsFilterPredicate(t *testing.T) {
	ctx := planctx.New()
	f := &lp.Filter{
		Input: &lp.GraphNode{Alias: "u"},
		Predicate: ast.BinaryExpr{
			Op:    ast.OpEq,
			Left:  ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "name"},
			Right: ast.LiteralExpr{Value: ast.Literal{Kind: ast.StringLiteral, S: "ada"}},
		},
	}
	if _, err := WherePropertyExtraction(f, ctx, nil); err != nil {
		t.Fatalf("WherePropertyExtraction: %v", err)
	}
	if !ctx.WherePropertyRequirements["u"]["name"] {
		t.Fatal("expected u.name to be recorded")
	}
}

func TestWherePropertyExtractionRecordsWithClauseWhere(t *testing.T) {
	ctx := planctx.New()
	wc := &lp.WithClause{
		Input: &lp.GraphNode{Alias: "u"},
		Where: ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "active"},
	}
	if _, err := WherePropertyExtraction(wc, ctx, nil); err != nil {
		t.Fatalf("WherePropertyExtraction: %v", err)
	}
	if !ctx.WherePropertyRequirements["u"]["active"] {
		t.Fatal("expected u.active to be recorded")
	}
}

func TestWherePropertyExtractionRecordsRelConstraints(t *testing.T) {
	ctx := planctx.New()
	rel := &lp.GraphRel{
		Alias:           "r",
		Left:            &lp.GraphNode{Alias: "a"},
		Right:           &lp.GraphNode{Alias: "b"},
		ConstraintsExpr: ast.PropertyAccess{Target: ast.Variable{Name: "r"}, Property: "since"},
	}
	if _, err := WherePropertyExtraction(rel, ctx, nil); err != nil {
		t.Fatalf("WherePropertyExtraction: %v", err)
	}
	if !ctx.WherePropertyRequirements["r"]["since"] {
		t.Fatal("expected r.since to be recorded")
	}
}
