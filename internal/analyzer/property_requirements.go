package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// PropertyRequirementsAnalysis collects, per alias, exactly the
// properties some downstream clause needs, so the render builder's
// bare-alias expansion (§ Property Expansion) can emit only those
// columns instead of every mapped property. References are recorded
// directly against whatever alias name appears at the point of use; a
// WITH item that renames a bare alias (`WITH a AS x`) falls back to
// requiring everything from the source alias, since translating x's
// downstream needs back onto a would need a second, reverse pass this
// single-sweep pipeline doesn't make. The ID column is always required
// and is added unconditionally by the render builder, not recorded here.
func PropertyRequirementsAnalysis(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	hasWildcard := false

	walkPlan(plan, func(p lp.Plan) {
		switch n := p.(type) {
		case *lp.Projection:
			recordItems(ctx, n.Items, &hasWildcard)
		case *lp.WithClause:
			recordItems(ctx, n.Items, &hasWildcard)
			if n.Where != nil {
				recordExpr(ctx, n.Where)
			}
			for _, k := range n.OrderBy {
				recordExpr(ctx, k.Expr)
			}
			if n.Skip != nil {
				recordExpr(ctx, n.Skip)
			}
			if n.Limit != nil {
				recordExpr(ctx, n.Limit)
			}
		case *lp.Filter:
			recordExpr(ctx, n.Predicate)
		case *lp.OrderBy:
			for _, k := range n.Keys {
				recordExpr(ctx, k.Expr)
			}
		case *lp.Limit:
			if n.Skip != nil {
				recordExpr(ctx, n.Skip)
			}
			if n.Count != nil {
				recordExpr(ctx, n.Count)
			}
		case *lp.GroupBy:
			recordItems(ctx, n.Keys, &hasWildcard)
			for _, a := range n.Aggregates {
				if a.Arg != nil {
					recordExpr(ctx, a.Arg)
				}
			}
		case *lp.Unwind:
			if n.Expression != nil {
				recordExpr(ctx, n.Expression)
			}
		case *lp.GraphRel:
			if n.ConstraintsExpr != nil {
				recordExpr(ctx, n.ConstraintsExpr)
			}
		}
	})

	if hasWildcard {
		for alias := range ctx.Aliases {
			ctx.PropertyRequirements.RequireAll(alias)
		}
	}

	return plan, nil
}

func recordItems(ctx *planctx.Ctx, items []lp.ProjectionItem, hasWildcard *bool) {
	for _, it := range items {
		if it.Wildcard {
			*hasWildcard = true
			continue
		}
		if it.Expr == nil {
			continue
		}
		if v, ok := it.Expr.(ast.Variable); ok {
			// A bare-alias projection (renamed or not) always needs
			// every mapped property of its source alias.
			ctx.PropertyRequirements.RequireAll(v.Name)
			continue
		}
		recordExpr(ctx, it.Expr)
	}
}

func recordExpr(ctx *planctx.Ctx, e ast.Expr) {
	for _, pa := range exprutil.PropertyAccesses(e) {
		v := pa.Target.(ast.Variable)
		ctx.PropertyRequirements.Require(v.Name, pa.Property)
	}
}
