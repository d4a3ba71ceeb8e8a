package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// GraphJoinInference attaches a schema.PatternSchemaContext to every
// GraphRel whose endpoints and edge type are resolved, dictating the
// join strategy the render builder must use for that hop.
func GraphJoinInference(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		rel, ok := p.(*lp.GraphRel)
		if !ok {
			return p, nil
		}
		if len(rel.Types) != 1 {
			return p, nil // still ambiguous; nothing to classify yet
		}

		edgeDef, err := sch.LookupEdge(rel.Types[0])
		if err != nil {
			return nil, err
		}

		var leftDef, rightDef schema.NodeDefinition
		if rel.Left.Label != "" {
			leftDef, err = sch.LookupNode(rel.Left.Label)
			if err != nil {
				return nil, err
			}
		}
		if rel.Right.Label != "" {
			rightDef, err = sch.LookupNode(rel.Right.Label)
			if err != nil {
				return nil, err
			}
		}

		rel.SchemaContext = schema.ClassifyPattern(leftDef, edgeDef, rightDef)
		return p, nil
	})
}
