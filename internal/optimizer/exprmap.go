package optimizer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
)

type exprFn func(ast.Expr) ast.Expr

// rewriteExpr applies fn bottom-up, tolerating a nil input (most
// expression-bearing fields are optional).
func rewriteExpr(e ast.Expr, fn exprFn) ast.Expr {
	if e == nil {
		return nil
	}
	return exprutil.Rewrite(e, fn)
}

func rewriteItems(items []lp.ProjectionItem, fn exprFn) {
	for i := range items {
		items[i].Expr = rewriteExpr(items[i].Expr, fn)
	}
}
