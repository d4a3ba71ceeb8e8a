package optimizer

import "github.com/clickgraph/clickgraph/internal/lp"

// rewritePlan applies fn bottom-up over plan's tree, mirroring the
// traversal analyzer passes use so optimizer passes share one place
// that knows every lp.Plan variant's children.
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
		left, err := rewritePlan(n.Left, fn)
		if err != nil {
			return nil, err
		}
		n.Left = left.(*lp.GraphNode)

		right, err := rewritePlan(n.Right, fn)
		if err != nil {
			return nil, err
		}
		n.Right = right.(*lp.GraphNode)

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

// mapExprs rewrites every ast.Expr-bearing field on every plan node with
// fn, bottom-up within each expression tree. It does not change plan
// shape, only the expressions attached to it.
func mapExprs(plan lp.Plan, fn exprFn) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		switch n := p.(type) {
		case *lp.ViewScan:
			n.AdditionalFilter = rewriteExpr(n.AdditionalFilter, fn)
			return n, nil
		case *lp.GraphRel:
			n.ConstraintsExpr = rewriteExpr(n.ConstraintsExpr, fn)
			return n, nil
		case *lp.Projection:
			rewriteItems(n.Items, fn)
			return n, nil
		case *lp.Filter:
			n.Predicate = rewriteExpr(n.Predicate, fn)
			return n, nil
		case *lp.WithClause:
			rewriteItems(n.Items, fn)
			n.Where = rewriteExpr(n.Where, fn)
			n.Skip = rewriteExpr(n.Skip, fn)
			n.Limit = rewriteExpr(n.Limit, fn)
			for i := range n.OrderBy {
				n.OrderBy[i].Expr = rewriteExpr(n.OrderBy[i].Expr, fn)
			}
			return n, nil
		case *lp.GroupBy:
			rewriteItems(n.Keys, fn)
			for i := range n.Aggregates {
				n.Aggregates[i].Arg = rewriteExpr(n.Aggregates[i].Arg, fn)
			}
			return n, nil
		case *lp.Unwind:
			n.Expression = rewriteExpr(n.Expression, fn)
			return n, nil
		case *lp.Limit:
			n.Skip = rewriteExpr(n.Skip, fn)
			n.Count = rewriteExpr(n.Count, fn)
			return n, nil
		case *lp.OrderBy:
			for i := range n.Keys {
				n.Keys[i].Expr = rewriteExpr(n.Keys[i].Expr, fn)
			}
			return n, nil
		default:
			return n, nil
		}
	})
}
