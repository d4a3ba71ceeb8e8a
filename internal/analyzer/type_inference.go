package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// TypeInference rewrites `+` between string-typed operands into an
// explicit concat(...) call, resolving the ambiguity ClickHouse's `+`
// (numeric only) would otherwise leave to the emitter. Everything else
// is left as an ordinary arithmetic BinaryExpr; ClickHouse's own numeric
// coercion handles the rest.
func TypeInference(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		switch n := p.(type) {
		case *lp.Filter:
			n.Predicate = exprutil.Rewrite(n.Predicate, rewriteConcat)
		case *lp.GraphRel:
			if n.ConstraintsExpr != nil {
				n.ConstraintsExpr = exprutil.Rewrite(n.ConstraintsExpr, rewriteConcat)
			}
		case *lp.Projection:
			rewriteItems(n.Items)
		case *lp.WithClause:
			rewriteItems(n.Items)
			if n.Where != nil {
				n.Where = exprutil.Rewrite(n.Where, rewriteConcat)
			}
		}
		return p, nil
	})
}

func rewriteItems(items []lp.ProjectionItem) {
	for i, it := range items {
		if it.Expr != nil {
			items[i].Expr = exprutil.Rewrite(it.Expr, rewriteConcat)
		}
	}
}

func rewriteConcat(e ast.Expr) ast.Expr {
	be, ok := e.(ast.BinaryExpr)
	if !ok || be.Op != ast.OpAdd {
		return e
	}
	if !isStringTyped(be.Left) && !isStringTyped(be.Right) {
		return e
	}
	args := []ast.Expr{be.Left}
	if call, ok := be.Left.(ast.FunctionCall); ok && call.Name == "concat" {
		args = call.Args
	}
	if call, ok := be.Right.(ast.FunctionCall); ok && call.Name == "concat" {
		args = append(args, call.Args...)
	} else {
		args = append(args, be.Right)
	}
	return ast.FunctionCall{Name: "concat", Args: args}
}

// isStringTyped makes a conservative, literal-grounded judgment: only
// expressions provably string-typed from their own syntax are treated
// as such. Anything whose type depends on schema (a bare property
// access) is left to ClickHouse's runtime coercion.
func isStringTyped(e ast.Expr) bool {
	switch n := e.(type) {
	case ast.LiteralExpr:
		return n.Value.Kind == ast.StringLiteral
	case ast.FunctionCall:
		return n.Name == "concat" || n.Name == "toString"
	default:
		return false
	}
}
