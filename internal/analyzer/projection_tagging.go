package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// ProjectionTagging classifies every WITH/RETURN item (bare-alias,
// property access, aggregate, function call, or wildcard) and, wherever
// a WithClause or terminal Projection carries an aggregate, inserts a
// GroupBy node between it and its input: non-aggregate items become the
// grouping keys, aggregate items become GroupBy.Aggregates.
func ProjectionTagging(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		switch n := p.(type) {
		case *lp.WithClause:
			if !anyAggregate(n.Items) {
				return n, nil
			}
			keys, aggs, err := splitAggregates(n.Items)
			if err != nil {
				return nil, err
			}
			n.Input = &lp.GroupBy{Input: n.Input, Keys: keys, Aggregates: aggs}
			return n, nil

		case *lp.Projection:
			if !anyAggregate(n.Items) {
				return n, nil
			}
			keys, aggs, err := splitAggregates(n.Items)
			if err != nil {
				return nil, err
			}
			n.Input = &lp.GroupBy{Input: n.Input, Keys: keys, Aggregates: aggs}
			return n, nil

		default:
			return p, nil
		}
	})
}

func anyAggregate(items []lp.ProjectionItem) bool {
	for _, it := range items {
		if it.Expr != nil && exprutil.ContainsAggregate(it.Expr) {
			return true
		}
	}
	return false
}

func splitAggregates(items []lp.ProjectionItem) ([]lp.ProjectionItem, []lp.Aggregate, error) {
	var keys []lp.ProjectionItem
	var aggs []lp.Aggregate
	for _, it := range items {
		if it.Expr == nil {
			keys = append(keys, it)
			continue
		}
		if call, ok := it.Expr.(ast.FunctionCall); ok && exprutil.IsAggregateCall(call.Name) {
			var arg ast.Expr
			if len(call.Args) > 0 {
				arg = call.Args[0]
			}
			aggs = append(aggs, lp.Aggregate{
				FuncName: call.Name,
				Arg:      arg,
				Distinct: call.Distinct,
				Alias:    it.Alias,
			})
			continue
		}
		keys = append(keys, it)
	}
	return keys, aggs, nil
}
