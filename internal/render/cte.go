package render

import (
	"fmt"
	"sort"

	"github.com/clickgraph/clickgraph/internal/cteutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/rp"
)

// internalCTEName mints a name for a CTE the render builder introduces
// itself (a union expansion's merged branches) rather than one the
// query author wrote a WITH for. These deliberately fall outside
// cteutil's generated-name shape (no "with_..._cte_N") so
// cteutil.IsGeneratedName keeps meaning exactly "came from a WITH".
func (b *Builder) internalCTEName(kind string) string {
	return fmt.Sprintf("%s_%d", kind, b.ctx.NextCTECounter())
}

// planAliases collects every pattern alias a source subtree binds,
// mirroring the optimizer's push-down helper but kept local since each
// package's internal alias-scanning duplicates the same small switch
// rather than sharing one across unrelated concerns.
func planAliases(plan lp.Plan) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(lp.Plan)
	walk = func(p lp.Plan) {
		switch n := p.(type) {
		case nil, lp.Empty:
			return
		case *lp.GraphNode:
			if n.Alias != "" && !seen[n.Alias] {
				seen[n.Alias] = true
				out = append(out, n.Alias)
			}
			walk(n.Input)
		case *lp.GraphRel:
			if n.Alias != "" && !seen[n.Alias] {
				seen[n.Alias] = true
				out = append(out, n.Alias)
			}
			walk(n.Left)
			walk(n.Right)
			walk(n.Center)
		case *lp.PatternJoin:
			walk(n.Left)
			walk(n.Right)
		case *lp.Unwind:
			if n.Alias != "" && !seen[n.Alias] {
				seen[n.Alias] = true
				out = append(out, n.Alias)
			}
			walk(n.Input)
		case *lp.Filter:
			walk(n.Input)
		}
	}
	walk(plan)
	sort.Strings(out)
	return out
}

// cteColumnName is the naming scheme used for a column a CTE's own
// SELECT list produces for (alias, prop): stable, identifier-safe, and
// distinct from the final result envelope's `"alias.prop"` column
// aliasing (§6.5), which only the outermost SELECT uses.
func cteColumnName(alias, prop string) string {
	if prop == "" {
		return alias
	}
	return alias + "_" + prop
}

// recordCTEColumns fills in b.cteColumns[cteName] from the SELECT items
// just built for it, parsing each item's "alias_prop"-shaped internal
// alias (cteColumnName) back into its (alias, prop) pair. Scalar items (aggregates,
// bare CTE passthroughs) are recorded under prop "".
func (b *Builder) recordCTEColumns(cteName string, items []rp.SelectItem, scalarAliases map[string]string) {
	cols := make(map[string]map[string]string)
	for alias, col := range scalarAliases {
		if cols[alias] == nil {
			cols[alias] = make(map[string]string)
		}
		cols[alias][""] = col
	}
	for _, it := range items {
		a, p, ok := splitInternalAlias(it.Alias)
		if !ok {
			continue
		}
		if cols[a] == nil {
			cols[a] = make(map[string]string)
		}
		cols[a][p] = it.Alias
	}
	b.cteColumns[cteName] = cols
}

func splitInternalAlias(name string) (alias, prop string, ok bool) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '_' {
			return name[:i], name[i+1:], true
		}
	}
	return "", "", false
}

// withClauseCTEName resolves the CTE name a WithClause should register
// under, reusing its analyzer-assigned name (cteutil.Generate output)
// unless something downstream already claimed it (shouldn't happen,
// but guards against the monotonic counter ever colliding).
func (b *Builder) withClauseCTEName(wc *lp.WithClause) string {
	if wc.Name != "" && !b.cteNames[wc.Name] {
		return wc.Name
	}
	return cteutil.Generate(wc.ExportedAliases, b.ctx.NextCTECounter())
}
