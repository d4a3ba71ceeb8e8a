// Package optimizer implements the semantics-preserving rewrite passes
// that run after the analyzer: pattern-comprehension rewriting, filter
// push-down, trivial-WITH elimination, cycle-prevention insertion for
// variable-length paths, and constant/identity simplification. Run
// applies each pass once, in the order Ordered lists.
package optimizer

import "github.com/clickgraph/clickgraph/internal/lp"

// Pass is one optimizer rewrite stage.
type Pass func(plan lp.Plan) (lp.Plan, error)

var Ordered = []Pass{
	RewritePatternComprehensions,
	PushDownFilters,
	EliminateTrivialWith,
	InsertCyclePrevention,
	SimplifyConstants,
}

func Run(plan lp.Plan) (lp.Plan, error) {
	var err error
	for _, pass := range Ordered {
		plan, err = pass(plan)
		if err != nil {
			return nil, err
		}
	}
	return plan, nil
}
