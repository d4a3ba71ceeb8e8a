package optimizer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
)

// InsertCyclePrevention adds an `left.id != right.id` conjunct to every
// relationship branch produced by expanding an undirected pattern into
// its forward/reverse union. Without it, a self-loop edge (or any row
// where the two endpoints coincide) would surface once per branch of
// the UNION ALL instead of once.
func InsertCyclePrevention(plan lp.Plan) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		rel, ok := p.(*lp.GraphRel)
		if !ok || rel.BranchMeta == nil {
			return p, nil
		}
		guard := ast.BinaryExpr{
			Op:   ast.OpNe,
			Left: ast.PropertyAccess{Target: ast.Variable{Name: rel.Left.Alias}, Property: "id"},
			Right: ast.PropertyAccess{
				Target:   ast.Variable{Name: rel.Right.Alias},
				Property: "id",
			},
		}
		conjuncts := append(exprutil.SplitConjuncts(rel.ConstraintsExpr), guard)
		rel.ConstraintsExpr = exprutil.JoinConjuncts(conjuncts)
		return rel, nil
	})
}
