package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// FilterTagging validates property references in WHERE predicates
// against the node schema wherever the alias's label is already known.
// Untyped aliases (label still unresolved) are skipped here; property
// pruning decides their fate in pass 6.
func FilterTagging(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	var outer error
	walkPlan(plan, func(p lp.Plan) {
		if outer != nil {
			return
		}
		f, ok := p.(*lp.Filter)
		if !ok {
			return
		}
		for _, pa := range exprutil.PropertyAccesses(f.Predicate) {
			v := pa.Target.(ast.Variable)
			tc := ctx.Aliases[v.Name]
			if tc == nil {
				continue // unresolved alias; pruning or validation handles it
			}
			if _, ok := tc.PropertyMapping[pa.Property]; !ok {
				outer = cgerrors.PropertyNotMapped(pa.Property, tc.Label)
				return
			}
		}
	})
	if outer != nil {
		return nil, outer
	}
	return plan, nil
}
