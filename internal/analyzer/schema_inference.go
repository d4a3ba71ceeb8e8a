package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// SchemaInference fills in the label of anonymous GraphNodes by
// consulting the from/to label of an adjacent GraphRel whose type is
// known and singular, then resolves any GraphNode/GraphRel with a
// concrete, singular label/type to a ViewScan. Anonymous nodes that
// remain ambiguous (no adjacent typed edge, or a multi-type edge) are
// left untouched for property-based union pruning to resolve.
func SchemaInference(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		switch n := p.(type) {
		case *lp.GraphRel:
			return inferRel(n, ctx, sch)
		default:
			return p, nil
		}
	})
}

func inferRel(rel *lp.GraphRel, ctx *planctx.Ctx, sch schema.GraphSchema) (*lp.GraphRel, error) {
	// Infer adjacent node labels from the edge's declared endpoints when
	// the edge type is known and singular.
	if len(rel.Types) == 1 {
		edgeDef, err := sch.LookupEdge(rel.Types[0])
		if err == nil {
			fromLabel, toLabel := edgeDef.FromNodeLabel, edgeDef.ToNodeLabel
			if rel.Direction == lp.Incoming {
				fromLabel, toLabel = toLabel, fromLabel
			}
			if rel.Left.Label == "" && fromLabel != "" {
				rel.Left.Label = fromLabel
			}
			if rel.Right.Label == "" && toLabel != "" {
				rel.Right.Label = toLabel
			}
		}
	}

	if err := resolveNode(rel.Left, ctx, sch); err != nil {
		return nil, err
	}
	if err := resolveNode(rel.Right, ctx, sch); err != nil {
		return nil, err
	}

	if len(rel.Types) == 1 {
		if err := resolveEdgeCenter(rel, sch); err != nil {
			return nil, err
		}
	}

	return rel, nil
}

func resolveNode(node *lp.GraphNode, ctx *planctx.Ctx, sch schema.GraphSchema) error {
	if node.Label == "" {
		return nil // still anonymous; union pruning handles it
	}
	if _, ok := node.Input.(*lp.ViewScan); ok {
		return nil // already resolved
	}

	def, err := sch.LookupNode(node.Label)
	if err != nil {
		return err
	}

	node.Input = &lp.ViewScan{
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
		node.Input.(*lp.ViewScan).TypeValues = []string{def.LabelValue}
	}
	node.IsDenormalized = def.IsDenormalized()

	if ctx.Aliases[node.Alias] == nil {
		ctx.Aliases[node.Alias] = &planctx.TableCtx{
			Label:           node.Label,
			Table:           def.Table,
			IDColumn:        def.IDColumn,
			PropertyMapping: def.PropertyMapping,
		}
	}
	return nil
}

func resolveEdgeCenter(rel *lp.GraphRel, sch schema.GraphSchema) error {
	if _, ok := rel.Center.(*lp.ViewScan); ok {
		return nil
	}
	def, err := sch.LookupEdge(rel.Types[0])
	if err != nil {
		return err
	}
	if def.Kind != schema.EdgeStandard {
		// Polymorphic edges are scanned through their shared table at
		// render time via TypeColumn filtering, not resolved here.
		return nil
	}
	rel.Center = &lp.ViewScan{
		SourceTable:     def.Table,
		Alias:           rel.Alias,
		PropertyMapping: def.PropertyMapping,
	}
	return nil
}
