package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// BidirectionalUnionExpansion turns every undirected GraphRel into a
// `UNION ALL` of its forward and reverse directed readings, every
// GraphRel left with more than one candidate edge type (from schema
// inference's singular-type check, or node-side union pruning) into a
// branch per type, and every standalone GraphNode property-union
// pruning (pass 6) left with more than one candidate label into a
// branch per label. The relationship expansions compose: an
// undirected, multi-typed relationship becomes one union branch per
// (direction, type) pair. A multi-candidate node bound as a
// relationship's own endpoint isn't expanded here — see the comment on
// rewritePlan's *lp.GraphRel case — and reaches render still ambiguous.
func BidirectionalUnionExpansion(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		switch n := p.(type) {
		case *lp.GraphRel:
			return expandRel(n, sch)
		case *lp.GraphNode:
			return expandNode(n, sch)
		default:
			return p, nil
		}
	})
}

// expandNode turns a still-anonymous node left with more than one
// schema candidate (property-based union pruning) into a UNION ALL of
// one ViewScan per candidate label, the node-side counterpart to
// expandRel's per-type branching. Each branch keeps the node's own
// alias (the render builder resolves its properties against whichever
// branch's own ViewScan produced the row, not a single shared
// ctx.Aliases entry — see render.compileGraphNode).
func expandNode(node *lp.GraphNode, sch schema.GraphSchema) (lp.Plan, error) {
	if len(node.Candidates) <= 1 {
		return node, nil
	}

	var branches []lp.Plan
	for _, label := range node.Candidates {
		def, err := sch.LookupNode(label)
		if err != nil {
			return nil, err
		}
		clone := *node
		clone.Label = label
		clone.Candidates = nil
		clone.IsDenormalized = def.IsDenormalized()
		vs := &lp.ViewScan{
			SourceTable:        def.Table,
			Alias:              node.Alias,
			IDColumn:           def.IDColumn,
			PropertyMapping:    def.PropertyMapping,
			FromNodeProperties: def.FromNodeProperties,
			ToNodeProperties:   def.ToNodeProperties,
			TypeColumn:         def.LabelColumn,
			ViewParameters:     def.ViewParameters,
		}
		if def.LabelColumn != "" {
			vs.TypeValues = []string{def.LabelValue}
		}
		clone.Input = vs
		branches = append(branches, &clone)
	}
	return &lp.Union{Inputs: branches, All: true}, nil
}

func expandRel(rel *lp.GraphRel, sch schema.GraphSchema) (lp.Plan, error) {
	directions := []lp.Direction{rel.Direction}
	if rel.Direction == lp.Undirected {
		directions = []lp.Direction{lp.Outgoing, lp.Incoming}
	}

	types := rel.Types
	needsTypeExpansion := len(types) > 1
	if !needsTypeExpansion {
		types = []string{""}
		if len(rel.Types) == 1 {
			types = rel.Types
		}
	}

	if len(directions) == 1 && !needsTypeExpansion {
		return rel, nil
	}

	wasUndirected := rel.Direction == lp.Undirected

	var branches []lp.Plan
	for _, dir := range directions {
		for _, t := range types {
			branch := cloneRel(rel)
			branch.Direction = dir
			if dir == lp.Incoming && wasUndirected {
				branch.Left, branch.Right = branch.Right, branch.Left
				branch.Direction = lp.Outgoing
			}
			if t != "" {
				branch.Types = []string{t}
				if err := resolveEdgeCenter(branch, sch); err != nil {
					return nil, err
				}
			}
			if wasUndirected {
				branch.BranchMeta = &lp.VLPMetadata{
					CypherStartAlias: rel.Left.Alias,
					CypherEndAlias:   rel.Right.Alias,
				}
			}
			branches = append(branches, branch)
		}
	}

	if len(branches) == 1 {
		return branches[0], nil
	}
	return &lp.Union{Inputs: branches, All: true}, nil
}

func cloneRel(rel *lp.GraphRel) *lp.GraphRel {
	clone := *rel
	leftNode := *rel.Left
	rightNode := *rel.Right
	clone.Left = &leftNode
	clone.Right = &rightNode
	return &clone
}
