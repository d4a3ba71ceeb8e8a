package render

import (
	"fmt"
	"sort"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/rp"
)

// renderQuery renders the SELECT-shaping portion of a plan: everything
// from the outermost Limit/OrderBy down through a terminal Projection
// (and, for a query ending in a bare WITH, a terminal WithClause).
func (b *Builder) renderQuery(plan lp.Plan) (*rp.Plan, error) {
	switch n := plan.(type) {
	case *lp.Limit:
		out, err := b.renderQuery(n.Input)
		if err != nil {
			return nil, err
		}
		if n.Skip != nil {
			out.Skip, err = b.translateExpr(n.Skip)
			if err != nil {
				return nil, err
			}
		}
		if n.Count != nil {
			out.Limit, err = b.translateExpr(n.Count)
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	case *lp.OrderBy:
		out, err := b.renderQuery(n.Input)
		if err != nil {
			return nil, err
		}
		for _, k := range n.Keys {
			e, err := b.translateExpr(k.Expr)
			if err != nil {
				return nil, err
			}
			out.OrderBy = append(out.OrderBy, rp.OrderKey{Expr: e, Desc: k.Descending})
		}
		return out, nil

	case *lp.Projection:
		plan, _, err := b.renderProjection(n)
		return plan, err

	case *lp.WithClause:
		// A query terminating in a bare WITH (no RETURN) projects exactly
		// what the WITH exports.
		plan, _, err := b.renderWithBody(n)
		return plan, err

	default:
		return nil, cgerrors.NotSupported("plan shape cannot terminate a query")
	}
}

// renderProjection renders a terminal RETURN. It also returns the
// scalar (non-bare-alias) output names this projection produced, so a
// caller materializing it as a CTE can record them for later bare-name
// resolution (resolveScalar) even though they carry no "alias_prop"
// shape for recordCTEColumns to parse back apart.
func (b *Builder) renderProjection(n *lp.Projection) (*rp.Plan, map[string]string, error) {
	if gb, ok := n.Input.(*lp.GroupBy); ok {
		return b.renderGroupBy(gb, n.Distinct, nil, finalNaming)
	}
	src, err := b.compileSource(n.Input)
	if err != nil {
		return nil, nil, err
	}
	items, scalars, err := b.projectItems(n.Items, finalNaming, true)
	if err != nil {
		return nil, nil, err
	}
	return &rp.Plan{
		Select:  rp.SelectClause{Items: items, Distinct: n.Distinct},
		From:    src.from,
		Filters: joinFilters(src.filters),
	}, scalars, nil
}

// renderWithBody renders a WithClause's own body as a *rp.Plan, applying
// its Where/OrderBy/Skip/Limit directly: used both for a terminal WITH
// and (via compileWithClauseSource) for a WITH materialized as a CTE.
func (b *Builder) renderWithBody(n *lp.WithClause) (*rp.Plan, map[string]string, error) {
	var plan *rp.Plan
	var scalars map[string]string
	if gb, ok := n.Input.(*lp.GroupBy); ok {
		out, s, err := b.renderGroupBy(gb, n.Distinct, n.Where, cteColumnName)
		if err != nil {
			return nil, nil, err
		}
		plan, scalars = out, s
	} else {
		src, err := b.compileSource(n.Input)
		if err != nil {
			return nil, nil, err
		}
		items, s, err := b.projectItems(n.Items, cteColumnName, false)
		if err != nil {
			return nil, nil, err
		}
		scalars = s
		filters := src.filters
		if n.Where != nil {
			w, err := b.translateExpr(n.Where)
			if err != nil {
				return nil, nil, err
			}
			filters = append(filters, w)
		}
		plan = &rp.Plan{
			Select:  rp.SelectClause{Items: items, Distinct: n.Distinct},
			From:    src.from,
			Filters: joinFilters(filters),
		}
	}

	for _, k := range n.OrderBy {
		e, err := b.translateExpr(k.Expr)
		if err != nil {
			return nil, nil, err
		}
		plan.OrderBy = append(plan.OrderBy, rp.OrderKey{Expr: e, Desc: k.Descending})
	}
	if n.Skip != nil {
		s, err := b.translateExpr(n.Skip)
		if err != nil {
			return nil, nil, err
		}
		plan.Skip = s
	}
	if n.Limit != nil {
		l, err := b.translateExpr(n.Limit)
		if err != nil {
			return nil, nil, err
		}
		plan.Limit = l
	}
	return plan, scalars, nil
}

// renderGroupBy folds a GroupBy node and the Where a wrapping WithClause
// placed above it (post-aggregation filters become HAVING, §4.6) into
// one SELECT ... GROUP BY ... HAVING statement: grouping keys are
// expanded through expandAlias (the alias's ID column seeds the GROUP
// BY list unwrapped; every other required property rides along wrapped
// in anyLast so it needs no functional-dependency guarantee), and each
// Aggregate becomes a plain aggregate SELECT item. naming names the
// expanded key columns, as in projectItems.
func (b *Builder) renderGroupBy(gb *lp.GroupBy, distinct bool, having ast.Expr, naming func(alias, prop string) string) (*rp.Plan, map[string]string, error) {
	src, err := b.compileSource(gb.Input)
	if err != nil {
		return nil, nil, err
	}

	var items []rp.SelectItem
	var groupBy []rp.Expr
	scalars := make(map[string]string)
	for i, k := range gb.Keys {
		if k.Wildcard {
			continue
		}
		if v, ok := k.Expr.(ast.Variable); ok {
			exportAlias := k.Alias
			if exportAlias == "" {
				exportAlias = v.Name
			}
			sub, idExpr, err := b.expandAliasAs(v.Name, exportAlias, true, naming)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, sub...)
			groupBy = append(groupBy, idExpr)
			continue
		}
		col, err := b.translateExpr(k.Expr)
		if err != nil {
			return nil, nil, err
		}
		alias := itemAlias(k, i)
		items = append(items, rp.SelectItem{Expr: col, Alias: alias})
		groupBy = append(groupBy, col)
		scalars[alias] = alias
	}

	for _, agg := range gb.Aggregates {
		call, err := b.translateAggregate(agg)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, rp.SelectItem{Expr: call, Alias: agg.Alias})
		scalars[agg.Alias] = agg.Alias
	}

	plan := &rp.Plan{
		Select:  rp.SelectClause{Items: items, Distinct: distinct},
		From:    src.from,
		Filters: joinFilters(src.filters),
		GroupBy: groupBy,
	}
	if having != nil {
		h, err := b.translateExpr(having)
		if err != nil {
			return nil, nil, err
		}
		plan.Having = h
	}
	return plan, scalars, nil
}

func (b *Builder) translateAggregate(agg lp.Aggregate) (rp.Expr, error) {
	if agg.Arg == nil {
		return rp.Call{Name: agg.FuncName, Distinct: agg.Distinct, Args: []rp.Expr{rp.Literal{SQL: "*"}}}, nil
	}
	arg, err := b.translateExpr(agg.Arg)
	if err != nil {
		return nil, err
	}
	return rp.Call{Name: agg.FuncName, Distinct: agg.Distinct, Args: []rp.Expr{arg}}, nil
}

// projectItems renders an ordinary (non-aggregated) WITH/RETURN item
// list: a bare-variable item expands through expandAlias (naming every
// resulting column via naming), a wildcard item expands every alias
// currently visible, and anything else is a plain scalar expression.
// isReturn marks the terminal result envelope (§6.5): only there does a
// bare relationship-alias item expand to the positional r_col1, r_col2,
// ... shape instead of the ordinary alias.prop naming.
func (b *Builder) projectItems(items []lp.ProjectionItem, naming func(alias, prop string) string, isReturn bool) ([]rp.SelectItem, map[string]string, error) {
	var out []rp.SelectItem
	scalars := make(map[string]string)
	for i, it := range items {
		if it.Wildcard {
			for _, alias := range b.visibleAliases() {
				if isReturn && b.relAliases[alias] {
					sub, err := b.expandRelationshipColumns(alias)
					if err != nil {
						return nil, nil, err
					}
					out = append(out, sub...)
					continue
				}
				sub, err := b.expandAlias(alias, false, naming)
				if err != nil {
					return nil, nil, err
				}
				out = append(out, sub...)
			}
			continue
		}
		if v, ok := it.Expr.(ast.Variable); ok {
			if isReturn && it.Alias == "" && b.relAliases[v.Name] {
				sub, err := b.expandRelationshipColumns(v.Name)
				if err != nil {
					return nil, nil, err
				}
				out = append(out, sub...)
				continue
			}
			exportAlias := it.Alias
			if exportAlias == "" {
				exportAlias = v.Name
			}
			sub, _, err := b.expandAliasAs(v.Name, exportAlias, false, naming)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, sub...)
			continue
		}
		col, err := b.translateExpr(it.Expr)
		if err != nil {
			return nil, nil, err
		}
		alias := itemAlias(it, i)
		out = append(out, rp.SelectItem{Expr: col, Alias: alias})
		scalars[alias] = alias
	}
	return out, scalars, nil
}

// expandAliasAs is expandAlias with the output column names built from
// exportAlias (the WITH/RETURN-visible name) while resolution still
// happens against sourceAlias (the alias actually bound to a table).
// It also returns the ID column expression alone, the group-by key a
// caller folding this into a GROUP BY needs.
func (b *Builder) expandAliasAs(sourceAlias, exportAlias string, aggCtx bool, naming func(alias, prop string) string) ([]rp.SelectItem, rp.Expr, error) {
	idExpr, err := b.resolve(sourceAlias, "id")
	if err != nil {
		return nil, nil, err
	}
	items, err := b.expandAliasFrom(sourceAlias, exportAlias, aggCtx, naming)
	if err != nil {
		return nil, nil, err
	}
	return items, idExpr, nil
}

func itemAlias(it lp.ProjectionItem, index int) string {
	if it.Alias != "" {
		return it.Alias
	}
	return fmt.Sprintf("expr_%d", index)
}

func joinFilters(filters []rp.Expr) rp.Expr {
	if len(filters) == 0 {
		return nil
	}
	out := filters[0]
	for _, f := range filters[1:] {
		out = rp.Binary{Op: rp.OpAnd, Left: out, Right: f}
	}
	return out
}

// visibleAliases is the best-effort alias set a wildcard projection
// item expands to: every alias this Ctx ever bound, pattern or virtual.
// It over-approximates true lexical scope (a WITH scope barrier can
// hide an alias a later wildcard should not see); callers with a
// narrower known scope should prefer expanding explicit items instead.
func (b *Builder) visibleAliases() []string {
	seen := make(map[string]bool)
	var out []string
	for alias := range b.ctx.Aliases {
		if !seen[alias] {
			seen[alias] = true
			out = append(out, alias)
		}
	}
	for alias := range b.virtualNodes {
		if !seen[alias] {
			seen[alias] = true
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
