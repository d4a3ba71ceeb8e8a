// Package analyzer implements the ordered analyzer pipeline: thirteen
// fixed-order passes that enrich and rewrite a Logical Plan between
// parsing and optimization. Passes share a *planctx.Ctx and run exactly
// once each, in the documented order; each pass is independently
// idempotent (running the same pass twice on its own output is a
// no-op), which is what lets the pipeline commit to a single forward
// sweep instead of iterating every pass to a global fixed point.
package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// Pass is one analyzer stage. It returns the (possibly rewritten) plan.
type Pass func(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error)

// Ordered is the fixed pass order.
var Ordered = []Pass{
	SchemaInference,
	TypeInference,
	WherePropertyExtraction,
	FilterTagging,
	VariableResolver,
	PropertyUnionPruning,
	BidirectionalUnionExpansion,
	GraphJoinInference,
	ProjectionTagging,
	PropertyRequirementsAnalysis,
	BridgeNodeDetection,
	CTEColumnResolver,
	QueryValidation,
}

// Run applies every pass in Ordered, in order, once.
func Run(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	var err error
	for _, pass := range Ordered {
		plan, err = pass(plan, ctx, sch)
		if err != nil {
			return nil, err
		}
	}
	return plan, nil
}
