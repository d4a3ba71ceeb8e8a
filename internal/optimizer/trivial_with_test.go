package optimizer

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/lp"
)

func TestEliminateTrivialWithDropsPassthrough(t *testing.T) {
	node := &lp.GraphNode{Alias: "u"}
	wc := &lp.WithClause{
		Input: node,
		Items: []lp.ProjectionItem{
			{Expr: ast.Variable{Name: "u"}, Alias: "u"},
		},
	}
	out, err := EliminateTrivialWith(wc)
	if err != nil {
		t.Fatalf("EliminateTrivialWith: %v", err)
	}
	if out != lp.Plan(node) {
		t.Fatalf("expected the trivial WITH to be replaced by its input, got %#v", out)
	}
}

func TestEliminateTrivialWithKeepsDistinct(t *testing.T) {
	wc := &lp.WithClause{
		Input:    &lp.GraphNode{Alias: "u"},
		Distinct: true,
		Items: []lp.ProjectionItem{
			{Expr: ast.Variable{Name: "u"}, Alias: "u"},
		},
	}
	out, err := EliminateTrivialWith(wc)
	if err != nil {
		t.Fatalf("EliminateTrivialWith: %v", err)
	}
	if _, ok := out.(*lp.WithClause); !ok {
		t.Fatalf("a DISTINCT WITH carries semantics and must not be dropped, got %#v", out)
	}
}

func TestEliminateTrivialWithKeepsRenamedItem(t *testing.T) {
	wc := &lp.WithClause{
		Input: &lp.GraphNode{Alias: "u"},
		Items: []lp.ProjectionItem{
			{Expr: ast.Variable{Name: "u"}, Alias: "renamed"},
		},
	}
	out, err := EliminateTrivialWith(wc)
	if err != nil {
		t.Fatalf("EliminateTrivialWith: %v", err)
	}
	if _, ok := out.(*lp.WithClause); !ok {
		t.Fatalf("a WITH that renames an item changes scope shape and must not be dropped, got %#v", out)
	}
}

func TestEliminateTrivialWithDropsWildcard(t *testing.T) {
	wc := &lp.WithClause{
		Input: &lp.GraphNode{Alias: "u"},
		Items: []lp.ProjectionItem{
			{Wildcard: true},
		},
	}
	out, err := EliminateTrivialWith(wc)
	if err != nil {
		t.Fatalf("EliminateTrivialWith: %v", err)
	}
	if _, ok := out.(*lp.WithClause); ok {
		t.Fatalf("WITH * passes every visible alias through and is trivial, expected it to be dropped, got %#v", out)
	}
}
