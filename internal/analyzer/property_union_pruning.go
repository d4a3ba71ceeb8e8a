package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// PropertyUnionPruning is Track C: for every GraphNode still anonymous
// after schema inference, narrow the candidate label set to those whose
// schema has every property referenced against that alias in WHERE. Zero
// candidates makes the node (and its pattern) contribute no rows; one
// candidate resolves it outright; more than one is left for union
// expansion (pass 7) to turn into a branch-per-type UNION.
func PropertyUnionPruning(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		node, ok := p.(*lp.GraphNode)
		if !ok || node.Label != "" {
			return p, nil
		}
		if _, ok := node.Input.(*lp.ViewScan); ok {
			return p, nil
		}

		required := ctx.WherePropertyRequirements[node.Alias]
		if len(required) == 0 {
			node.Candidates = sch.AllNodeTypes()
			return p, nil
		}

		candidates := intersectByProperties(sch, required)
		switch len(candidates) {
		case 0:
			node.Unsatisfiable = true
		case 1:
			node.Label = candidates[0]
			if err := resolveNode(node, ctx, sch); err != nil {
				return nil, err
			}
		default:
			node.Candidates = candidates
		}
		return p, nil
	})
}

func intersectByProperties(sch schema.GraphSchema, required map[string]bool) []string {
	var props []string
	for p := range required {
		props = append(props, p)
	}
	if len(props) == 0 {
		return sch.AllNodeTypes()
	}

	candidateSet := make(map[string]int)
	for _, label := range schema.NodeTypesWithProperty(sch, props[0]) {
		candidateSet[label] = 1
	}
	for _, prop := range props[1:] {
		has := make(map[string]bool)
		for _, label := range schema.NodeTypesWithProperty(sch, prop) {
			has[label] = true
		}
		for label, count := range candidateSet {
			if has[label] {
				candidateSet[label] = count + 1
			}
		}
	}

	var out []string
	for label, count := range candidateSet {
		if count == len(props) {
			out = append(out, label)
		}
	}
	return out
}
