// Package planbuild constructs a Logical Plan tree from a parsed AST,
// depth-first, with no schema knowledge: anonymous nodes/edges stay
// Empty until the analyzer's schema-inference pass resolves them.
package planbuild

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
)

// Build turns a full query (possibly a UNION chain) into a Plan.
func Build(q ast.Query) (lp.Plan, error) {
	first, err := buildSinglePart(q.Parts[0])
	if err != nil {
		return nil, err
	}
	if len(q.Parts) == 1 {
		return first, nil
	}

	plan := first
	inputs := []lp.Plan{first}
	for i := 1; i < len(q.Parts); i++ {
		next, err := buildSinglePart(q.Parts[i])
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, next)
	}
	// UNION [ALL] is "all" only if every boundary says ALL; a plain UNION
	// anywhere in the chain forces distinct semantics across the whole
	// union, matching standard SQL UNION precedence.
	all := true
	for _, a := range q.UnionAll {
		if !a {
			all = false
		}
	}
	plan = &lp.Union{Inputs: inputs, All: all}
	return plan, nil
}

func buildSinglePart(sp ast.SinglePartQuery) (lp.Plan, error) {
	var current lp.Plan

	for _, clause := range sp.Clauses {
		var err error
		switch c := clause.(type) {
		case ast.MatchClause:
			current, err = buildMatch(current, c)
		case ast.UnwindClause:
			current, err = buildUnwind(current, c)
		case ast.WithClause:
			current, err = buildWith(current, c)
		case ast.ReturnClause:
			current, err = buildReturn(current, c)
		default:
			err = cgerrors.NotSupported("unknown clause type")
		}
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

func buildMatch(prior lp.Plan, c ast.MatchClause) (lp.Plan, error) {
	var patternPlan lp.Plan
	for _, part := range c.Pattern {
		elemPlan, err := buildPatternElement(part.Element, part.Shortest, part.PathVariable)
		if err != nil {
			return nil, err
		}
		if patternPlan == nil {
			patternPlan = elemPlan
		} else {
			patternPlan = &lp.PatternJoin{Left: patternPlan, Right: elemPlan}
		}
	}

	combined := patternPlan
	if prior != nil {
		combined = &lp.PatternJoin{Left: prior, Right: patternPlan, Optional: c.Optional}
	} else if c.Optional {
		// An OPTIONAL MATCH with no prior pattern behaves like a plain
		// MATCH: there is nothing to outer-join against yet.
		combined = patternPlan
	}

	if c.Where != nil {
		combined = &lp.Filter{Input: combined, Predicate: c.Where}
	}
	return combined, nil
}

// buildPatternElement builds the GraphNode/GraphRel chain for one
// comma-separated pattern part: `(a)-[:T]->(b)-[:T2]->(c)`. pathVariable
// is the `p` of a named `p = ...` part; it binds onto the chain's own
// relationship only when there is exactly one (the only shape
// shortestPath/allShortestPaths and a plain variable-length path allow),
// since length(p) across a multi-hop named path isn't supported yet.
func buildPatternElement(elem ast.PatternElement, shortest ast.ShortestMode, pathVariable string) (lp.Plan, error) {
	if len(elem.Nodes) == 0 {
		return nil, cgerrors.Syntax(0, 0, "pattern with no nodes")
	}

	left := buildGraphNode(elem.Nodes[0])
	if len(elem.Rels) == 0 {
		return left, nil
	}

	var chain lp.Plan
	leftNode := left
	for i, rel := range elem.Rels {
		rightNode := buildGraphNode(elem.Nodes[i+1])
		graphRel, err := buildGraphRel(rel, leftNode, rightNode, shortest)
		if err != nil {
			return nil, err
		}
		if pathVariable != "" && len(elem.Rels) == 1 {
			graphRel.PathAlias = pathVariable
		}
		if chain == nil {
			chain = graphRel
		} else {
			chain = &lp.PatternJoin{Left: chain, Right: graphRel}
		}
		leftNode = rightNode
	}
	return chain, nil
}

func buildGraphNode(n ast.NodePattern) *lp.GraphNode {
	label := ""
	if len(n.Labels) > 0 {
		label = n.Labels[0]
	}
	input := lp.Plan(lp.Empty{})
	return &lp.GraphNode{Alias: n.Variable, Label: label, Input: input}
}

func buildGraphRel(r ast.RelPattern, left, right *lp.GraphNode, shortest ast.ShortestMode) (*lp.GraphRel, error) {
	dir := lp.Undirected
	switch r.Direction {
	case ast.Outgoing:
		dir = lp.Outgoing
	case ast.Incoming:
		dir = lp.Incoming
	}

	var vlp *lp.VariableLength
	if rvl := r.VariableLength; rvl != nil && (rvl.Max == nil || rvl.Min != 1 || *rvl.Max != 1) {
		mode := lp.NoShortest
		switch shortest {
		case ast.Shortest:
			mode = lp.Shortest
		case ast.AllShortest:
			mode = lp.AllShortest
		}
		vlp = &lp.VariableLength{Min: rvl.Min, Max: rvl.Max, Shortest: mode}
	}

	return &lp.GraphRel{
		Alias:          r.Variable,
		Left:           left,
		Right:          right,
		Center:         lp.Empty{},
		Types:          r.Types,
		Direction:      dir,
		VariableLength: vlp,
	}, nil
}

func buildUnwind(prior lp.Plan, c ast.UnwindClause) (lp.Plan, error) {
	return &lp.Unwind{Input: prior, Expression: c.Expr, Alias: c.Variable}, nil
}

func buildWith(prior lp.Plan, c ast.WithClause) (lp.Plan, error) {
	items, exported, err := buildProjectionItems(c.Items)
	if err != nil {
		return nil, err
	}
	keys, err := buildSortKeys(c.OrderBy)
	if err != nil {
		return nil, err
	}
	return &lp.WithClause{
		Input:           prior,
		Items:           items,
		ExportedAliases: exported,
		Distinct:        c.Distinct,
		Where:           c.Where,
		OrderBy:         keys,
		Skip:            c.Skip,
		Limit:           c.Limit,
	}, nil
}

func buildReturn(prior lp.Plan, c ast.ReturnClause) (lp.Plan, error) {
	items, _, err := buildProjectionItems(c.Items)
	if err != nil {
		return nil, err
	}
	plan := lp.Plan(&lp.Projection{Input: prior, Items: items, Distinct: c.Distinct})

	keys, err := buildSortKeys(c.OrderBy)
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 {
		plan = &lp.OrderBy{Input: plan, Keys: keys}
	}
	if c.Skip != nil || c.Limit != nil {
		plan = &lp.Limit{Input: plan, Skip: c.Skip, Count: c.Limit}
	}
	return plan, nil
}

func buildProjectionItems(raw []ast.ProjectionItem) ([]lp.ProjectionItem, []string, error) {
	items := make([]lp.ProjectionItem, 0, len(raw))
	var exported []string
	for _, it := range raw {
		items = append(items, lp.ProjectionItem{Expr: it.Expr, Alias: it.Alias, Wildcard: it.Wildcard})
		exported = append(exported, exportedName(it))
	}
	return items, exported, nil
}

// exportedName is the alias a WITH item is visible as in the next scope:
// the explicit alias, or the bare variable name for `WITH a, b`.
func exportedName(it ast.ProjectionItem) string {
	if it.Alias != "" {
		return it.Alias
	}
	if v, ok := it.Expr.(ast.Variable); ok {
		return v.Name
	}
	return ""
}

func buildSortKeys(raw []ast.SortItem) ([]lp.SortKey, error) {
	keys := make([]lp.SortKey, 0, len(raw))
	for _, s := range raw {
		keys = append(keys, lp.SortKey{Expr: s.Expr, Descending: s.Descending})
	}
	return keys, nil
}
