package optimizer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/lp"
)

// EliminateTrivialWith drops a WithClause that does no work of its own:
// no DISTINCT, WHERE, ORDER BY, SKIP or LIMIT, and every item is a bare
// variable passed through under its own name. Such a WITH exists only
// to name a scope boundary the query author wrote but that carries no
// semantics the render builder needs a CTE for.
func EliminateTrivialWith(plan lp.Plan) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		wc, ok := p.(*lp.WithClause)
		if !ok {
			return p, nil
		}
		if !isTrivial(wc) {
			return wc, nil
		}
		return wc.Input, nil
	})
}

func isTrivial(wc *lp.WithClause) bool {
	if wc.Distinct || wc.Where != nil || len(wc.OrderBy) > 0 || wc.Skip != nil || wc.Limit != nil {
		return false
	}
	for _, item := range wc.Items {
		if item.Wildcard {
			continue
		}
		v, ok := item.Expr.(ast.Variable)
		if !ok || v.Name != item.Alias {
			return false
		}
	}
	return true
}
