package render

import (
	"fmt"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/rp"
	"github.com/clickgraph/clickgraph/internal/schema"
	"github.com/clickgraph/clickgraph/internal/vlp"
)

// compileVariableLengthRel renders a *k or *a..b relationship (§4.8): a
// fixed hop count expands inline (internal/vlp.Fixed), a bounded or
// unbounded range becomes a recursive CTE guarded by
// cfg.MaxRecursiveCTEDepth, shortestPath/allShortestPaths wrap that CTE
// with an outer ORDER BY/LIMIT or a minimum-hop-count bound, and an
// undirected path unions a forward and a reverse traversal. An
// undirected shortestPath/allShortestPaths must pick its minimum
// exactly once, across both directions together: each branch is
// compiled unwrapped and the wrap is applied to their UNION ALL, never
// to a branch on its own, or a query could return one row per
// direction instead of the overall minimum. Variable length is only
// supported over a Traditional join strategy: a denormalized endpoint
// has no table row of its own for the recursive step to anchor on.
func (b *Builder) compileVariableLengthRel(n *lp.GraphRel, edgeDef schema.EdgeDefinition, strategy schema.JoinStrategy, fromNode, toNode *lp.GraphNode, fromIDCol, toIDCol string) (*source, error) {
	if strategy != schema.Traditional {
		return nil, cgerrors.NotSupported("variable-length path over a denormalized relationship")
	}

	params := map[string]string{}
	for _, p := range edgeDef.ViewParameters {
		v, ok := resolveViewParameter(p, b.ctx)
		if !ok {
			return nil, cgerrors.MissingParameter(p)
		}
		params[p] = v
	}
	hop := vlp.EdgeHop{Table: edgeDef.Table, Alias: n.Alias, FromIDColumn: fromIDCol, ToIDColumn: toIDCol, ViewParameters: params}
	vlen := n.VariableLength

	if n.Direction != lp.Undirected {
		src, hopCount, err := b.compileDirectedVLP(n, hop, fromNode, toNode, idColumnOf(b, fromNode), idColumnOf(b, toNode), vlen, true)
		if err != nil {
			return nil, err
		}
		if n.PathAlias != "" {
			b.pathLengths[n.PathAlias] = hopCount
		}
		return src, nil
	}

	src, hopCount, err := b.unionVLPBranches(fromNode.Alias, toNode.Alias, vlen, func(i int) (*source, rp.Expr, error) {
		if i == 0 {
			return b.compileDirectedVLP(n, hop, fromNode, toNode, idColumnOf(b, fromNode), idColumnOf(b, toNode), vlen, false)
		}
		reverse := vlp.EdgeHop{Table: hop.Table, Alias: hop.Alias, FromIDColumn: toIDCol, ToIDColumn: fromIDCol, ViewParameters: params}
		return b.compileDirectedVLP(n, reverse, toNode, fromNode, idColumnOf(b, toNode), idColumnOf(b, fromNode), vlen, false)
	})
	if err != nil {
		return nil, err
	}
	if n.PathAlias != "" {
		b.pathLengths[n.PathAlias] = hopCount
	}
	return src, nil
}

// compileDirectedVLP renders one directed traversal from startNode to
// endNode. The start node's own table is joined inside the recursive
// CTE's anchor to seed/filter the walk, and both endpoints' own tables
// are joined outside it so their properties stay resolvable the
// ordinary way through ctx.Aliases, so a query referencing startNode/endNode properties
// elsewhere keeps working without any alias redirection. applyWrap
// governs whether a shortestPath/allShortestPaths range applies its
// ORDER BY/MIN wrap here, on this branch alone, or leaves the raw
// recursive CTE for the caller to wrap after a union (the undirected
// case, where exactly one minimum must be picked across both
// directions together). The second return value is the expression
// length(p) resolves to: a literal hop count for a fixed hop, the
// traversal's hop_count column otherwise.
func (b *Builder) compileDirectedVLP(n *lp.GraphRel, hop vlp.EdgeHop, startNode, endNode *lp.GraphNode, startIDCol, endIDCol string, vlen *lp.VariableLength, applyWrap bool) (*source, rp.Expr, error) {
	startSrc, err := b.compileSource(startNode)
	if err != nil {
		return nil, nil, err
	}
	endSrc, err := b.compileSource(endNode)
	if err != nil {
		return nil, nil, err
	}

	if vlen.IsFixed() {
		joins, filters := vlp.Fixed(startNode.Alias, startIDCol, hop, endNode.Alias, endIDCol, vlen.Min)
		startSrc.from.Joins = append(startSrc.from.Joins, joins...)
		startSrc.from.Joins = append(startSrc.from.Joins, rp.Join{Kind: rp.InnerJoin, Ref: endSrc.from.Ref, On: rp.Literal{SQL: "true"}})
		startSrc.from.Joins = append(startSrc.from.Joins, endSrc.from.Joins...)
		startSrc.filters = append(startSrc.filters, filters...)
		startSrc.filters = append(startSrc.filters, endSrc.filters...)
		if n.ConstraintsExpr != nil {
			c, err := b.translateExpr(n.ConstraintsExpr)
			if err != nil {
				return nil, nil, err
			}
			startSrc.filters = append(startSrc.filters, c)
		}
		return startSrc, rp.Literal{SQL: fmt.Sprintf("%d", vlen.Min)}, nil
	}

	innerName := b.internalCTEName("vlp")
	anchorJoins, anchorFilters, pathNodes, curAlias, curIDCol := vlp.RecursiveAnchor(startNode.Alias, startIDCol, hop, vlen.Min)
	anchorFrom := rp.FromClause{
		Ref:   startSrc.from.Ref,
		Joins: append(append([]rp.Join{}, startSrc.from.Joins...), anchorJoins...),
	}
	anchorFilterList := append(append([]rp.Expr{}, startSrc.filters...), anchorFilters...)
	if n.ConstraintsExpr != nil {
		c, err := b.translateExpr(n.ConstraintsExpr)
		if err != nil {
			return nil, nil, err
		}
		anchorFilterList = append(anchorFilterList, c)
	}
	anchorPlan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.ColumnRef{Alias: startNode.Alias, Column: startIDCol}, Alias: "path_start"},
			{Expr: rp.ColumnRef{Alias: curAlias, Column: curIDCol}, Alias: "current_id"},
			{Expr: pathNodes, Alias: "path_nodes"},
			{Expr: rp.Literal{SQL: fmt.Sprintf("%d", vlen.Min)}, Alias: "hop_count"},
		}},
		From:    anchorFrom,
		Filters: joinFilters(anchorFilterList),
	}

	depthLimit := int(b.cfg.MaxRecursiveCTEDepth)
	if depthLimit == 0 {
		depthLimit = int(vlp.DefaultMaxRecursiveCTEDepth)
	}
	if vlen.Max != nil {
		depthLimit = *vlen.Max
	}
	_, stepJoins, stepFilters, nextCur, nextPath, nextHop := vlp.RecursiveStep(innerName, hop, depthLimit)
	stepPlan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.ColumnRef{Alias: innerName, Column: "path_start"}, Alias: "path_start"},
			{Expr: nextCur, Alias: "current_id"},
			{Expr: nextPath, Alias: "path_nodes"},
			{Expr: nextHop, Alias: "hop_count"},
		}},
		From:    rp.FromClause{Ref: rp.TableRef{Name: innerName, Alias: innerName}, Joins: stepJoins},
		Filters: joinFilters(stepFilters),
	}
	b.registerCTE(rp.Cte{Name: innerName, IsRecursive: true, Union: []*rp.Plan{anchorPlan, stepPlan}})

	resultName := innerName
	if applyWrap {
		resultName = b.wrapShortest(innerName, vlen.Shortest)
	}

	final := &source{from: rp.FromClause{Ref: rp.TableRef{Name: resultName, Alias: resultName}}}
	final.from.Joins = append(final.from.Joins, rp.Join{Kind: rp.InnerJoin, Ref: startSrc.from.Ref, On: rp.Literal{SQL: "true"}})
	final.from.Joins = append(final.from.Joins, startSrc.from.Joins...)
	final.from.Joins = append(final.from.Joins, rp.Join{Kind: rp.InnerJoin, Ref: endSrc.from.Ref, On: rp.Literal{SQL: "true"}})
	final.from.Joins = append(final.from.Joins, endSrc.from.Joins...)
	final.filters = append(final.filters,
		rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: resultName, Column: "path_start"}, Right: rp.ColumnRef{Alias: startNode.Alias, Column: startIDCol}},
		rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: resultName, Column: "current_id"}, Right: rp.ColumnRef{Alias: endNode.Alias, Column: endIDCol}},
	)
	final.filters = append(final.filters, startSrc.filters...)
	final.filters = append(final.filters, endSrc.filters...)
	return final, rp.ColumnRef{Alias: resultName, Column: "hop_count"}, nil
}

// wrapShortest registers, when mode asks for one, an outer CTE over the
// recursive CTE innerName that picks the overall minimum hop_count
// (ORDER BY ... LIMIT 1 for a single shortest path, a MIN(hop_count)
// subquery filter for every path tied at the minimum), returning
// whichever CTE name the caller should read path_start/current_id/
// hop_count from: the wrap's own name if one was registered, innerName
// unchanged otherwise.
func (b *Builder) wrapShortest(innerName string, mode lp.ShortestMode) string {
	switch mode {
	case lp.Shortest:
		name := b.internalCTEName("vlp_shortest")
		b.registerCTE(rp.Cte{Name: name, Body: &rp.Plan{
			Select:  vlp.WrapColumns(innerName),
			From:    rp.FromClause{Ref: rp.TableRef{Name: innerName, Alias: innerName}},
			OrderBy: []rp.OrderKey{{Expr: rp.ColumnRef{Alias: innerName, Column: "hop_count"}}},
			Limit:   rp.Literal{SQL: "1"},
		}})
		return name
	case lp.AllShortest:
		name := b.internalCTEName("vlp_allshortest")
		minPlan := &rp.Plan{
			Select: rp.SelectClause{Items: []rp.SelectItem{
				{Expr: rp.Call{Name: "MIN", Args: []rp.Expr{rp.ColumnRef{Alias: innerName, Column: "hop_count"}}}, Alias: "m"},
			}},
			From: rp.FromClause{Ref: rp.TableRef{Name: innerName, Alias: innerName}},
		}
		b.registerCTE(rp.Cte{Name: name, Body: &rp.Plan{
			Select: vlp.WrapColumns(innerName),
			From:   rp.FromClause{Ref: rp.TableRef{Name: innerName, Alias: innerName}},
			Filters: rp.Binary{
				Op:    rp.OpEq,
				Left:  rp.ColumnRef{Alias: innerName, Column: "hop_count"},
				Right: rp.Subquery{Plan: minPlan},
			},
		}})
		return name
	default:
		return innerName
	}
}

// unionVLPBranches materializes n branches of an undirected
// variable-length path (build(0) forward, build(1) reverse) as one
// internal CTE, expanding leftAlias/rightAlias (the relationship's own
// n.Left/n.Right Cypher aliases, stable across both branches since
// each branch joins both endpoints' real tables under their real
// aliases regardless of which one the traversal actually starts from)
// alongside each branch's own hop_count. shortestPath/allShortestPaths
// wraps this union exactly once, never a branch on its own, so an
// undirected query returns exactly the paths spec.md's shortest-path
// scenario requires instead of up to one per direction. The returned
// expression is where length(p) reads hop_count from afterward.
func (b *Builder) unionVLPBranches(leftAlias, rightAlias string, vlen *lp.VariableLength, build func(branch int) (*source, rp.Expr, error)) (*source, rp.Expr, error) {
	const n = 2
	var branches []*rp.Plan
	var firstAliasItems []rp.SelectItem
	for i := 0; i < n; i++ {
		src, hopCount, err := build(i)
		if err != nil {
			return nil, nil, err
		}
		var aliasItems []rp.SelectItem
		for _, alias := range []string{leftAlias, rightAlias} {
			sub, err := b.expandAlias(alias, false, cteColumnName)
			if err != nil {
				return nil, nil, err
			}
			aliasItems = append(aliasItems, sub...)
		}
		items := append(append([]rp.SelectItem{}, aliasItems...), rp.SelectItem{Expr: hopCount, Alias: "hop_count"})
		branches = append(branches, &rp.Plan{
			Select:  rp.SelectClause{Items: items},
			From:    src.from,
			Filters: joinFilters(src.filters),
		})
		if i == 0 {
			firstAliasItems = aliasItems
		}
	}
	name := b.internalCTEName("vlp_union")
	b.registerCTE(rp.Cte{Name: name, Union: branches})
	b.recordCTEColumns(name, firstAliasItems, nil)

	resultName := name
	switch vlen.Shortest {
	case lp.Shortest:
		resultName = b.internalCTEName("vlp_union_shortest")
		b.registerCTE(rp.Cte{Name: resultName, Body: &rp.Plan{
			Select:  unionWrapColumns(name, firstAliasItems),
			From:    rp.FromClause{Ref: rp.TableRef{Name: name, Alias: name}},
			OrderBy: []rp.OrderKey{{Expr: rp.ColumnRef{Alias: name, Column: "hop_count"}}},
			Limit:   rp.Literal{SQL: "1"},
		}})
	case lp.AllShortest:
		resultName = b.internalCTEName("vlp_union_allshortest")
		minPlan := &rp.Plan{
			Select: rp.SelectClause{Items: []rp.SelectItem{
				{Expr: rp.Call{Name: "MIN", Args: []rp.Expr{rp.ColumnRef{Alias: name, Column: "hop_count"}}}, Alias: "m"},
			}},
			From: rp.FromClause{Ref: rp.TableRef{Name: name, Alias: name}},
		}
		b.registerCTE(rp.Cte{Name: resultName, Body: &rp.Plan{
			Select: unionWrapColumns(name, firstAliasItems),
			From:   rp.FromClause{Ref: rp.TableRef{Name: name, Alias: name}},
			Filters: rp.Binary{
				Op:    rp.OpEq,
				Left:  rp.ColumnRef{Alias: name, Column: "hop_count"},
				Right: rp.Subquery{Plan: minPlan},
			},
		}})
	}
	if resultName != name {
		b.recordCTEColumns(resultName, firstAliasItems, nil)
	}

	return &source{from: rp.FromClause{Ref: rp.TableRef{Name: resultName, Alias: resultName}}},
		rp.ColumnRef{Alias: resultName, Column: "hop_count"}, nil
}

// unionWrapColumns is vlp.WrapColumns generalized to the union CTE's own
// arbitrary leftAlias/rightAlias-expanded column names plus hop_count,
// re-selecting every one of them unchanged from innerName.
func unionWrapColumns(innerName string, items []rp.SelectItem) rp.SelectClause {
	out := make([]rp.SelectItem, 0, len(items)+1)
	for _, it := range items {
		out = append(out, rp.SelectItem{Expr: rp.ColumnRef{Alias: innerName, Column: it.Alias}, Alias: it.Alias})
	}
	out = append(out, rp.SelectItem{Expr: rp.ColumnRef{Alias: innerName, Column: "hop_count"}, Alias: "hop_count"})
	return rp.SelectClause{Items: out}
}
