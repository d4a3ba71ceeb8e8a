package planbuild

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/lp"
)

func TestBuildSingleMatchReturn(t *testing.T) {
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{
			Nodes: []ast.NodePattern{{Variable: "u", Labels: []string{"User"}}},
		}}}},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "u"}, Alias: "u"}}},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	proj, ok := plan.(*lp.Projection)
	if !ok {
		t.Fatalf("expected a *lp.Projection at the top, got %#v", plan)
	}
	node, ok := proj.Input.(*lp.GraphNode)
	if !ok || node.Alias != "u" || node.Label != "User" {
		t.Fatalf("expected the match to build a GraphNode(u:User), got %#v", proj.Input)
	}
}

func TestBuildMatchWithWhereWrapsFilter(t *testing.T) {
	where := ast.BinaryExpr{
		Op:    ast.OpEq,
		Left:  ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "name"},
		Right: ast.LiteralExpr{Value: ast.Literal{Kind: ast.StringLiteral, S: "ada"}},
	}
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.MatchClause{
			Pattern: ast.Pattern{{Element: ast.PatternElement{Nodes: []ast.NodePattern{{Variable: "u"}}}}},
			Where:   where,
		},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "u"}, Alias: "u"}}},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	proj := plan.(*lp.Projection)
	filter, ok := proj.Input.(*lp.Filter)
	if !ok {
		t.Fatalf("expected a *lp.Filter wrapping the matched pattern, got %#v", proj.Input)
	}
	if _, ok := filter.Predicate.(ast.BinaryExpr); !ok {
		t.Fatalf("expected the WHERE predicate to carry through unchanged, got %#v", filter.Predicate)
	}
}

func TestBuildRelationshipChain(t *testing.T) {
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{
			Nodes: []ast.NodePattern{{Variable: "u"}, {Variable: "f"}},
			Rels:  []ast.RelPattern{{Variable: "r", Types: []string{"FOLLOWS"}, Direction: ast.Outgoing}},
		}}}},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "r"}, Alias: "r"}}},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	proj := plan.(*lp.Projection)
	rel, ok := proj.Input.(*lp.GraphRel)
	if !ok {
		t.Fatalf("expected a *lp.GraphRel, got %#v", proj.Input)
	}
	if rel.Alias != "r" || rel.Left.Alias != "u" || rel.Right.Alias != "f" || rel.Direction != lp.Outgoing {
		t.Fatalf("unexpected relationship shape: %#v", rel)
	}
	if rel.VariableLength != nil {
		t.Fatal("a plain single-hop relationship should carry no VariableLength")
	}
}

func TestBuildVariableLengthRelationship(t *testing.T) {
	two := 3
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{
			Nodes: []ast.NodePattern{{Variable: "u"}, {Variable: "f"}},
			Rels: []ast.RelPattern{{
				Variable: "r", Types: []string{"FOLLOWS"}, Direction: ast.Outgoing,
				VariableLength: &ast.VariableLength{Min: 1, Max: &two},
			}},
		}}}},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "r"}, Alias: "r"}}},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rel := plan.(*lp.Projection).Input.(*lp.GraphRel)
	if rel.VariableLength == nil {
		t.Fatal("expected a VariableLength to be attached")
	}
	if rel.VariableLength.Min != 1 || *rel.VariableLength.Max != 3 {
		t.Fatalf("got %#v", rel.VariableLength)
	}
}

func TestBuildWithExportsAliasNames(t *testing.T) {
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{Nodes: []ast.NodePattern{{Variable: "u"}}}}}},
		ast.WithClause{Items: []ast.ProjectionItem{
			{Expr: ast.Variable{Name: "u"}},
			{Expr: ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "name"}, Alias: "uname"},
		}},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "u"}, Alias: "u"}}},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	proj := plan.(*lp.Projection)
	wc, ok := proj.Input.(*lp.WithClause)
	if !ok {
		t.Fatalf("expected a *lp.WithClause, got %#v", proj.Input)
	}
	if len(wc.ExportedAliases) != 2 || wc.ExportedAliases[0] != "u" || wc.ExportedAliases[1] != "uname" {
		t.Fatalf("got exported aliases %v", wc.ExportedAliases)
	}
}

func TestBuildReturnSkipLimitWrapsLimit(t *testing.T) {
	skip := ast.LiteralExpr{Value: ast.Literal{Kind: ast.IntLiteral, I: 10}}
	limit := ast.LiteralExpr{Value: ast.Literal{Kind: ast.IntLiteral, I: 20}}
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{Nodes: []ast.NodePattern{{Variable: "u"}}}}}},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "u"}, Alias: "u"}}, Skip: skip, Limit: limit},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	lim, ok := plan.(*lp.Limit)
	if !ok {
		t.Fatalf("expected a *lp.Limit at the top, got %#v", plan)
	}
	if _, ok := lim.Input.(*lp.Projection); !ok {
		t.Fatalf("expected LIMIT to wrap the projection, got %#v", lim.Input)
	}
}

func TestBuildReturnOrderByWrapsOrderBy(t *testing.T) {
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{Nodes: []ast.NodePattern{{Variable: "u"}}}}}},
		ast.ReturnClause{
			Items:   []ast.ProjectionItem{{Expr: ast.Variable{Name: "u"}, Alias: "u"}},
			OrderBy: []ast.SortItem{{Expr: ast.PropertyAccess{Target: ast.Variable{Name: "u"}, Property: "name"}, Descending: true}},
		},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ob, ok := plan.(*lp.OrderBy)
	if !ok {
		t.Fatalf("expected a *lp.OrderBy at the top, got %#v", plan)
	}
	if len(ob.Keys) != 1 || !ob.Keys[0].Descending {
		t.Fatalf("got %#v", ob.Keys)
	}
}

func TestBuildUnionAllOnlyWhenEveryBoundaryIsAll(t *testing.T) {
	part := ast.SinglePartQuery{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{Nodes: []ast.NodePattern{{Variable: "u"}}}}}},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "u"}, Alias: "u"}}},
	}}
	q := ast.Query{Parts: []ast.SinglePartQuery{part, part}, UnionAll: []bool{true}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	u, ok := plan.(*lp.Union)
	if !ok || !u.All || len(u.Inputs) != 2 {
		t.Fatalf("got %#v", plan)
	}
}

func TestBuildUnionIsDistinctIfAnyBoundaryIsDistinct(t *testing.T) {
	part := ast.SinglePartQuery{Clauses: []ast.Clause{
		ast.MatchClause{Pattern: ast.Pattern{{Element: ast.PatternElement{Nodes: []ast.NodePattern{{Variable: "u"}}}}}},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "u"}, Alias: "u"}}},
	}}
	q := ast.Query{Parts: []ast.SinglePartQuery{part, part, part}, UnionAll: []bool{true, false}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	u := plan.(*lp.Union)
	if u.All {
		t.Fatal("one plain UNION boundary should force distinct semantics across the whole chain")
	}
}

func TestBuildUnwind(t *testing.T) {
	q := ast.Query{Parts: []ast.SinglePartQuery{{Clauses: []ast.Clause{
		ast.UnwindClause{Expr: ast.ListExpr{Items: []ast.Expr{ast.LiteralExpr{Value: ast.Literal{Kind: ast.IntLiteral, I: 1}}}}, Variable: "x"},
		ast.ReturnClause{Items: []ast.ProjectionItem{{Expr: ast.Variable{Name: "x"}, Alias: "x"}}},
	}}}}

	plan, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	proj := plan.(*lp.Projection)
	uw, ok := proj.Input.(*lp.Unwind)
	if !ok || uw.Alias != "x" {
		t.Fatalf("got %#v", proj.Input)
	}
}
