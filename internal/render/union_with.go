package render

import (
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/rp"
)

// compileUnionSource materializes a Union of pattern branches (produced
// by bidirectional/multi-type expansion) as one internal CTE: every
// branch binds the same Cypher aliases (a clone only swaps which struct
// field holds which endpoint, never the alias strings themselves), so a
// single column list built from the first branch's bound aliases
// describes every branch's output. A Union whose branches are RETURN
// projections (a top-level UNION query) is not rendered: compileSource
// rejects a Projection branch.
func (b *Builder) compileUnionSource(n *lp.Union) (*source, error) {
	if len(n.Inputs) == 0 {
		return nil, cgerrors.NotSupported("union with no branches")
	}

	aliases := planAliases(n.Inputs[0])
	var branches []*rp.Plan
	var firstItems []rp.SelectItem
	for i, input := range n.Inputs {
		src, err := b.compileSource(input)
		if err != nil {
			return nil, err
		}
		var items []rp.SelectItem
		for _, alias := range aliases {
			sub, err := b.expandAlias(alias, false, cteColumnName)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}
		branches = append(branches, &rp.Plan{
			Select:  rp.SelectClause{Items: items},
			From:    src.from,
			Filters: joinFilters(src.filters),
		})
		if i == 0 {
			firstItems = items
		}
	}

	name := b.internalCTEName("union")
	b.registerCTE(rp.Cte{Name: name, Union: branches})
	b.recordCTEColumns(name, firstItems, nil)
	return &source{from: rp.FromClause{Ref: rp.TableRef{Name: name, Alias: name}}}, nil
}

// compileWithClauseSource materializes a WithClause as a registered
// CTE and returns a source referencing it, so a pattern above the WITH
// resolves its exported aliases against the CTE's own column map (the
// CTE Column Resolver's render-time half, §4.4 pass 11).
func (b *Builder) compileWithClauseSource(n *lp.WithClause) (*source, error) {
	body, scalars, err := b.renderWithBody(n)
	if err != nil {
		return nil, err
	}
	name := b.withClauseCTEName(n)
	b.registerCTE(rp.Cte{Name: name, Body: body})
	b.recordCTEColumns(name, body.Select.Items, scalars)
	return &source{from: rp.FromClause{Ref: rp.TableRef{Name: name, Alias: name}}}, nil
}
