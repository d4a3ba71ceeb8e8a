package optimizer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/lp"
)

// RewritePatternComprehensions simplifies pattern-comprehension
// expressions whose WHERE clause is a constant: `[(pat) WHERE true |
// proj]` drops the always-true filter so the render builder never has
// to special-case a redundant correlated predicate, and `[(pat) WHERE
// false | proj]` collapses to the empty list, since no row can ever
// satisfy it.
func RewritePatternComprehensions(plan lp.Plan) (lp.Plan, error) {
	return mapExprs(plan, func(e ast.Expr) ast.Expr {
		pc, ok := e.(ast.PatternComprehensionExpr)
		if !ok {
			return e
		}
		lit, ok := pc.Where.(ast.LiteralExpr)
		if !ok || lit.Value.Kind != ast.BoolLiteral {
			return pc
		}
		if lit.Value.B {
			pc.Where = nil
			return pc
		}
		return ast.LiteralExpr{Value: ast.Literal{Kind: ast.ListLiteralKind}}
	})
}
