// Package vlp builds the render-plan fragments a variable-length
// relationship (`*k`, `*a..b`, `*a..`) expands into: a fixed hop count
// becomes an inline join chain, a bounded or unbounded range becomes
// the anchor and recursive step of a recursive CTE. It only knows
// about table/column names and rp expressions; the render builder
// supplies those names (resolved against the schema and the analyzed
// plan) and does the actual CTE registration and endpoint wiring.
package vlp

import (
	"fmt"

	"github.com/clickgraph/clickgraph/internal/rp"
)

// Config bounds how many hops an unbounded or one-sided variable-length
// path's recursive CTE is allowed to expand before giving up.
type Config struct {
	MaxRecursiveCTEDepth uint32
}

// DefaultMaxRecursiveCTEDepth is used whenever a caller's Config leaves
// MaxRecursiveCTEDepth at its zero value.
const DefaultMaxRecursiveCTEDepth uint32 = 100

// EdgeHop is the one relationship table a traversal joins once per
// fixed hop, or folds into a recursive step's own JOIN. Alias seeds the
// per-hop aliases the generator mints (never used as a SQL alias on
// its own).
type EdgeHop struct {
	Table          string
	Alias          string
	FromIDColumn   string
	ToIDColumn     string
	ViewParameters map[string]string
}

func (h EdgeHop) ref(alias string) rp.TableRef {
	return rp.TableRef{Name: h.Table, Alias: alias, Parameters: h.ViewParameters}
}

// Fixed returns the join chain and WHERE conjuncts for a fixed-length
// (`*k`) traversal: k chained joins against hop, connecting startAlias
// to endAlias, plus the O(k^2) pairwise-distinct filters across each
// hop's own endpoint column that keep the path from revisiting a node.
// Intermediate node tables are never joined ("bridge-only": a node
// visited only to be stepped over never needs its own properties
// fetched).
func Fixed(startAlias, startIDColumn string, hop EdgeHop, endAlias, endIDColumn string, k int) ([]rp.Join, []rp.Expr) {
	var joins []rp.Join
	var filters []rp.Expr
	hopAliases := make([]string, k)
	prevAlias, prevIDCol := startAlias, startIDColumn
	for i := 0; i < k; i++ {
		alias := fmt.Sprintf("%s_h%d", hop.Alias, i)
		hopAliases[i] = alias
		joins = append(joins, rp.Join{Kind: rp.InnerJoin, Ref: hop.ref(alias), On: rp.Literal{SQL: "true"}})
		filters = append(filters, rp.Binary{
			Op:    rp.OpEq,
			Left:  rp.ColumnRef{Alias: alias, Column: hop.FromIDColumn},
			Right: rp.ColumnRef{Alias: prevAlias, Column: prevIDCol},
		})
		prevAlias, prevIDCol = alias, hop.ToIDColumn
	}
	filters = append(filters, rp.Binary{
		Op:    rp.OpEq,
		Left:  rp.ColumnRef{Alias: prevAlias, Column: prevIDCol},
		Right: rp.ColumnRef{Alias: endAlias, Column: endIDColumn},
	})
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			filters = append(filters, rp.Binary{
				Op:    rp.OpNe,
				Left:  rp.ColumnRef{Alias: hopAliases[i], Column: hop.ToIDColumn},
				Right: rp.ColumnRef{Alias: hopAliases[j], Column: hop.ToIDColumn},
			})
		}
	}
	filters = append(filters, rp.Binary{
		Op:    rp.OpNe,
		Left:  rp.ColumnRef{Alias: startAlias, Column: startIDColumn},
		Right: rp.ColumnRef{Alias: endAlias, Column: endIDColumn},
	})
	return joins, filters
}

// RecursiveAnchor returns the base case of a bounded/unbounded
// recursive CTE: the first min hops expanded inline from startAlias,
// producing path_start (fixed at startAlias's own id), the current
// node reached after min hops, path_nodes (every id visited so far,
// start inclusive, as an array literal the recursive step appends to),
// and hop_count = min. min is clamped to 1: a zero-length path is not
// a relationship traversal.
func RecursiveAnchor(startAlias, startIDColumn string, hop EdgeHop, min int) (joins []rp.Join, filters []rp.Expr, pathNodes rp.Expr, currentAlias, currentIDColumn string) {
	if min < 1 {
		min = 1
	}
	pathElems := []rp.Expr{rp.ColumnRef{Alias: startAlias, Column: startIDColumn}}
	prevAlias, prevIDCol := startAlias, startIDColumn
	for i := 0; i < min; i++ {
		alias := fmt.Sprintf("%s_a%d", hop.Alias, i)
		joins = append(joins, rp.Join{Kind: rp.InnerJoin, Ref: hop.ref(alias), On: rp.Literal{SQL: "true"}})
		filters = append(filters, rp.Binary{
			Op:    rp.OpEq,
			Left:  rp.ColumnRef{Alias: alias, Column: hop.FromIDColumn},
			Right: rp.ColumnRef{Alias: prevAlias, Column: prevIDCol},
		})
		prevAlias, prevIDCol = alias, hop.ToIDColumn
		pathElems = append(pathElems, rp.ColumnRef{Alias: alias, Column: hop.ToIDColumn})
	}
	return joins, filters, rp.Call{Name: "array", Args: pathElems}, prevAlias, prevIDCol
}

// RecursiveStep returns the join and guard filters for one step of a
// bounded/unbounded recursive CTE named innerName: extend current_id
// by one hop, refusing a node already present in path_nodes (cycle
// prevention) and refusing to extend past depthLimit hops. The three
// returned expressions are the next row's current_id, path_nodes and
// hop_count.
func RecursiveStep(innerName string, hop EdgeHop, depthLimit int) (edgeAlias string, joins []rp.Join, filters []rp.Expr, nextCurrentID, nextPathNodes, nextHopCount rp.Expr) {
	edgeAlias = hop.Alias + "_step"
	joins = append(joins, rp.Join{Kind: rp.InnerJoin, Ref: hop.ref(edgeAlias), On: rp.Literal{SQL: "true"}})
	filters = append(filters,
		rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: edgeAlias, Column: hop.FromIDColumn}, Right: rp.ColumnRef{Alias: innerName, Column: "current_id"}},
		rp.Unary{Op: rp.OpNot, Operand: rp.Call{Name: "has", Args: []rp.Expr{
			rp.ColumnRef{Alias: innerName, Column: "path_nodes"},
			rp.ColumnRef{Alias: edgeAlias, Column: hop.ToIDColumn},
		}}},
		rp.Binary{Op: rp.OpLt, Left: rp.ColumnRef{Alias: innerName, Column: "hop_count"}, Right: rp.Literal{SQL: fmt.Sprintf("%d", depthLimit)}},
	)
	nextCurrentID = rp.ColumnRef{Alias: edgeAlias, Column: hop.ToIDColumn}
	nextPathNodes = rp.Call{Name: "arrayConcat", Args: []rp.Expr{
		rp.ColumnRef{Alias: innerName, Column: "path_nodes"},
		rp.Call{Name: "array", Args: []rp.Expr{rp.ColumnRef{Alias: edgeAlias, Column: hop.ToIDColumn}}},
	}}
	nextHopCount = rp.Binary{Op: rp.OpAdd, Left: rp.ColumnRef{Alias: innerName, Column: "hop_count"}, Right: rp.Literal{SQL: "1"}}
	return
}

// WrapColumns is the column list an outer shortestPath/allShortestPaths
// CTE re-selects from the inner recursive CTE named innerName.
func WrapColumns(innerName string) rp.SelectClause {
	col := func(name string) rp.SelectItem {
		return rp.SelectItem{Expr: rp.ColumnRef{Alias: innerName, Column: name}, Alias: name}
	}
	return rp.SelectClause{Items: []rp.SelectItem{
		col("path_start"), col("current_id"), col("path_nodes"), col("hop_count"),
	}}
}
