package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// BridgeNodeDetection marks every alias that is purely a hinge between
// two adjacent relationship hops and nothing else (§4.8's bridge-only
// join optimization): a node touched by exactly two distinct
// fixed-length hops (in either direction), resolved to a single
// concrete label, and never itself read by
// any downstream clause. The render builder uses IsBridgeOnly to skip
// joining that node's own table and chain the two edge rows directly,
// the same way internal/vlp links a fixed-length path's interior hops
// without ever joining an interior node table.
func BridgeNodeDetection(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	incidentRels := map[string][]*lp.GraphRel{}
	nodeByAlias := map[string]*lp.GraphNode{}

	walkPlan(plan, func(p lp.Plan) {
		rel, ok := p.(*lp.GraphRel)
		if !ok || rel.VariableLength != nil {
			return
		}
		if rel.Left != nil {
			incidentRels[rel.Left.Alias] = append(incidentRels[rel.Left.Alias], rel)
			nodeByAlias[rel.Left.Alias] = rel.Left
		}
		if rel.Right != nil {
			incidentRels[rel.Right.Alias] = append(incidentRels[rel.Right.Alias], rel)
			nodeByAlias[rel.Right.Alias] = rel.Right
		}
	})

	for alias, rels := range incidentRels {
		if len(rels) != 2 || rels[0] == rels[1] {
			continue // not exactly two distinct adjacent hops
		}
		node := nodeByAlias[alias]
		if node == nil || node.Unsatisfiable || len(node.Candidates) > 1 {
			continue
		}
		if _, ok := node.Input.(*lp.ViewScan); !ok {
			continue
		}
		if ctx.PropertyRequirements.NeedsAll(alias) || len(ctx.PropertyRequirements.Properties(alias)) > 0 {
			continue // read by a projection, WHERE, ORDER BY, ... downstream
		}
		tc := ctx.Aliases[alias]
		if tc == nil {
			continue
		}
		tc.IsBridgeOnly = true
	}

	return plan, nil
}
