package optimizer

import "github.com/clickgraph/clickgraph/internal/lp"

// planAliases collects every pattern alias bound anywhere within plan's
// subtree, used by filter push-down to decide which side of a join a
// conjunct belongs on. It doesn't stop at scope barriers (WithClause)
// the way query validation's scope computation does, since push-down
// only ever runs below the nearest barrier anyway.
func planAliases(plan lp.Plan) map[string]bool {
	out := make(map[string]bool)
	var walk func(lp.Plan)
	walk = func(p lp.Plan) {
		switch n := p.(type) {
		case nil, lp.Empty:
			return
		case *lp.GraphNode:
			if n.Alias != "" {
				out[n.Alias] = true
			}
			walk(n.Input)
		case *lp.GraphRel:
			if n.Alias != "" {
				out[n.Alias] = true
			}
			walk(n.Left)
			walk(n.Right)
			walk(n.Center)
		case *lp.PatternJoin:
			walk(n.Left)
			walk(n.Right)
		case *lp.Unwind:
			if n.Alias != "" {
				out[n.Alias] = true
			}
			walk(n.Input)
		case *lp.Filter:
			walk(n.Input)
		case *lp.Projection:
			walk(n.Input)
		case *lp.GroupBy:
			walk(n.Input)
		case *lp.OrderBy:
			walk(n.Input)
		case *lp.Limit:
			walk(n.Input)
		}
	}
	walk(plan)
	return out
}
