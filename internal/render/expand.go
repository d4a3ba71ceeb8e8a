package render

import (
	"fmt"
	"sort"

	"github.com/clickgraph/clickgraph/internal/rp"
)

// expandAlias is the single helper every bare-alias expansion site uses
// (WITH/RETURN items, GROUP BY seeding, wildcard projection). If
// requirements names specific properties for alias, only those plus the
// ID column are expanded; otherwise (wildcard, or no requirement
// recorded) every mapped property is expanded. aggCtx wraps every
// non-ID column in anyLast(...) so grouping by ID still produces a
// representative value for the rest of the row. naming picks the
// output column alias for each (alias, prop) pair: the final result
// envelope's `"alias.prop"` shape (§6.5) at the outermost SELECT, or
// the identifier-safe internal naming scheme for a CTE body.
func (b *Builder) expandAlias(alias string, aggCtx bool, naming func(alias, prop string) string) ([]rp.SelectItem, error) {
	return b.expandAliasFrom(alias, alias, aggCtx, naming)
}

// expandAliasFrom is expandAlias with the output column names built
// from exportAlias (the name this value is visible under in the
// current WITH/RETURN scope) while schema resolution and property
// requirements still key off sourceAlias (the pattern alias the value
// was actually bound to).
func (b *Builder) expandAliasFrom(sourceAlias, exportAlias string, aggCtx bool, naming func(alias, prop string) string) ([]rp.SelectItem, error) {
	props, err := b.expandableProperties(sourceAlias)
	if err != nil {
		return nil, err
	}

	items := make([]rp.SelectItem, 0, len(props)+1)
	idCol, err := b.resolve(sourceAlias, "id")
	if err == nil {
		items = append(items, rp.SelectItem{Expr: idCol, Alias: naming(exportAlias, "id")})
	}
	for _, p := range props {
		col, err := b.resolve(sourceAlias, p)
		if err != nil {
			return nil, err
		}
		if aggCtx {
			col = rp.Call{Name: "anyLast", Args: []rp.Expr{col}}
		}
		items = append(items, rp.SelectItem{Expr: col, Alias: naming(exportAlias, p)})
	}
	return items, nil
}

// finalNaming is the result-envelope column-aliasing scheme (§6.5).
func finalNaming(alias, prop string) string {
	return alias + "." + prop
}

// expandRelationshipColumns expands a bare relationship variable
// (`RETURN r`) to its own columns, aliased positionally (`r_col1`,
// `r_col2`, ...) per the result envelope shape (§6.5): a relationship
// has no single property worth naming the envelope column after, the
// way a node's `alias.prop` naming does.
func (b *Builder) expandRelationshipColumns(alias string) ([]rp.SelectItem, error) {
	items, err := b.expandAliasFrom(alias, alias, false, func(string, string) string { return "" })
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Alias = fmt.Sprintf("%s_col%d", alias, i+1)
	}
	return items, nil
}

// expandableProperties returns the property list expandAlias should
// emit for alias, in stable order: every mapped property if the
// requirement set names none or is wildcard, else the exact named set.
func (b *Builder) expandableProperties(alias string) ([]string, error) {
	var all map[string]string
	if tc := b.ctx.Aliases[alias]; tc != nil {
		all = tc.PropertyMapping
	} else if vn, ok := b.virtualNodes[alias]; ok {
		all = vn.props
	} else {
		return nil, notBound(alias)
	}

	if b.ctx.PropertyRequirements.NeedsAll(alias) {
		return sortedKeys(all), nil
	}
	names := b.ctx.PropertyRequirements.Properties(alias)
	if len(names) == 0 {
		return sortedKeys(all), nil
	}
	sort.Strings(names)
	return names, nil
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
