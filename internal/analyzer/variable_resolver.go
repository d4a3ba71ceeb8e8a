package analyzer

import (
	"sort"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/cteutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// VariableResolver assigns every WithClause its generated CTE name via
// the centralized naming contract, and pushes a new analysis scope so
// later passes (and the render builder) know which aliases are visible
// past the WITH boundary. Free-identifier resolution to (alias, column)
// happens lazily at render time via ctx.Aliases, since most references
// aren't fully known until schema inference and union pruning settle.
func VariableResolver(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		wc, ok := p.(*lp.WithClause)
		if !ok {
			return p, nil
		}
		exported := make([]string, 0, len(wc.ExportedAliases))
		for _, a := range wc.ExportedAliases {
			if a == "" {
				return nil, cgerrors.Syntax(0, 0, "WITH item requires an alias for non-variable expressions")
			}
			exported = append(exported, a)
		}
		sorted := append([]string(nil), exported...)
		sort.Strings(sorted)

		wc.Name = cteutil.Generate(sorted, ctx.NextCTECounter())
		ctx.PushScope(wc.Name, exported)
		return wc, nil
	})
}
