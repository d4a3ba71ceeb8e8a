package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// CTEColumnResolver validates that every WithClause exports a column for
// each of its declared ExportedAliases. The actual (alias, property) ->
// column mapping is built directly from WithClause.Items by the render
// builder when it emits the CTE's SELECT list, so references into a CTE
// are never resolved by reverse-engineering a naming convention.
func CTEColumnResolver(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	var outer error
	walkPlan(plan, func(p lp.Plan) {
		if outer != nil {
			return
		}
		wc, ok := p.(*lp.WithClause)
		if !ok {
			return
		}
		if len(wc.ExportedAliases) != len(wc.Items) {
			outer = cgerrors.InvalidConfig("with_clause", "exported alias count does not match projection item count")
		}
	})
	if outer != nil {
		return nil, outer
	}
	return plan, nil
}
