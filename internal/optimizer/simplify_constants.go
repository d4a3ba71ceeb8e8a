package optimizer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/lp"
)

// SimplifyConstants folds AND/OR boolean identities that have a
// true/false literal operand (such as pattern-comprehension rewriting's
// literal WHERE) so the emitter doesn't carry dead predicates into the
// final SQL. Comparisons, including cycle-prevention's a.id != b.id,
// are left unchanged.
func SimplifyConstants(plan lp.Plan) (lp.Plan, error) {
	return mapExprs(plan, func(e ast.Expr) ast.Expr {
		be, ok := e.(ast.BinaryExpr)
		if !ok {
			return e
		}
		lBool, lIsBool := boolLiteral(be.Left)
		rBool, rIsBool := boolLiteral(be.Right)

		switch be.Op {
		case ast.OpAnd:
			if lIsBool {
				if !lBool {
					return falseLit()
				}
				return be.Right
			}
			if rIsBool {
				if !rBool {
					return falseLit()
				}
				return be.Left
			}
		case ast.OpOr:
			if lIsBool {
				if lBool {
					return trueLit()
				}
				return be.Right
			}
			if rIsBool {
				if rBool {
					return trueLit()
				}
				return be.Left
			}
		}
		return be
	})
}

func boolLiteral(e ast.Expr) (bool, bool) {
	lit, ok := e.(ast.LiteralExpr)
	if !ok || lit.Value.Kind != ast.BoolLiteral {
		return false, false
	}
	return lit.Value.B, true
}

func trueLit() ast.Expr {
	return ast.LiteralExpr{Value: ast.Literal{Kind: ast.BoolLiteral, B: true}}
}

func falseLit() ast.Expr {
	return ast.LiteralExpr{Value: ast.Literal{Kind: ast.BoolLiteral, B: false}}
}
