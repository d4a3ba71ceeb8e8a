package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// WherePropertyExtraction walks every WHERE expression in the plan and
// records, per alias, the properties it references. Track C's union
// pruning (pass 6) consults this to narrow untyped patterns before any
// UNION is actually built.
func WherePropertyExtraction(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	walkPlan(plan, func(p lp.Plan) {
		var preds []ast.Expr
		switch n := p.(type) {
		case *lp.Filter:
			preds = append(preds, n.Predicate)
		case *lp.WithClause:
			if n.Where != nil {
				preds = append(preds, n.Where)
			}
		case *lp.GraphRel:
			if n.ConstraintsExpr != nil {
				preds = append(preds, n.ConstraintsExpr)
			}
		}
		for _, pred := range preds {
			for _, pa := range exprutil.PropertyAccesses(pred) {
				v := pa.Target.(ast.Variable)
				ctx.RecordWhereProperty(v.Name, pa.Property)
			}
		}
	})
	return plan, nil
}
