package analyzer

import "github.com/clickgraph/clickgraph/internal/lp"

// rewritePlan applies fn bottom-up over plan's tree: children are
// rewritten first, then fn is applied to the (possibly already-rewritten)
// node itself. fn may return its input unchanged for nodes it doesn't
// care about.
func rewritePlan(plan lp.Plan, fn func(lp.Plan) (lp.Plan, error)) (lp.Plan, error) {
	if plan == nil {
		return nil, nil
	}

	switch n := plan.(type) {
	case lp.Empty:
		return fn(n)

	case *lp.ViewScan:
		return fn(n)

	case *lp.GraphNode:
		child, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = child
		return fn(n)

	case *lp.GraphRel:
		// Left/Right must stay *lp.GraphNode: the rest of the pipeline
		// (join-strategy classification, render's join building) reaches
		// into them by field, not through the lp.Plan interface. A pass
		// that turns an ambiguous endpoint into an lp.Union (multi-
		// candidate node union expansion) can't be applied to a
		// relationship's own endpoint this way, so that replacement is
		// silently skipped here and the endpoint is left as fn rewrote it
		// in place (or unchanged) rather than swapped to a different plan
		// shape this field can't hold.
		left, err := rewritePlan(n.Left, fn)
		if err != nil {
			return nil, err
		}
		if ln, ok := left.(*lp.GraphNode); ok {
			n.Left = ln
		}

		right, err := rewritePlan(n.Right, fn)
		if err != nil {
			return nil, err
		}
		if rn, ok := right.(*lp.GraphNode); ok {
			n.Right = rn
		}

		center, err := rewritePlan(n.Center, fn)
		if err != nil {
			return nil, err
		}
		n.Center = center

		return fn(n)

	case *lp.PatternJoin:
		left, err := rewritePlan(n.Left, fn)
		if err != nil {
			return nil, err
		}
		n.Left = left
		right, err := rewritePlan(n.Right, fn)
		if err != nil {
			return nil, err
		}
		n.Right = right
		return fn(n)

	case *lp.Projection:
		input, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = input
		return fn(n)

	case *lp.Filter:
		input, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = input
		return fn(n)

	case *lp.WithClause:
		input, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = input
		return fn(n)

	case *lp.GroupBy:
		input, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = input
		return fn(n)

	case *lp.Unwind:
		input, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = input
		return fn(n)

	case *lp.Union:
		inputs := make([]lp.Plan, len(n.Inputs))
		for i, in := range n.Inputs {
			rewritten, err := rewritePlan(in, fn)
			if err != nil {
				return nil, err
			}
			inputs[i] = rewritten
		}
		n.Inputs = inputs
		return fn(n)

	case *lp.Limit:
		input, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = input
		return fn(n)

	case *lp.OrderBy:
		input, err := rewritePlan(n.Input, fn)
		if err != nil {
			return nil, err
		}
		n.Input = input
		return fn(n)

	default:
		return fn(n)
	}
}

// walkPlan is rewritePlan's read-only counterpart, for passes that only
// need to observe the tree.
func walkPlan(plan lp.Plan, visit func(lp.Plan)) {
	rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		visit(p)
		return p, nil
	})
}
