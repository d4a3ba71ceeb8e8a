package render

import (
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/rp"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// compileGraphRel renders one relationship hop according to the join
// strategy its PatternSchemaContext was classified into (§4.9), folding
// the hop's own endpoint constraints into the accumulated filter list
// rather than the ON clause: every join here is built `ON true` and the
// actual equi-join predicates travel as ordinary WHERE conjuncts, which
// keeps OPTIONAL MATCH's left-outer semantics (handled one level up, in
// compilePatternJoin) simple to reason about.
func (b *Builder) compileGraphRel(n *lp.GraphRel) (*source, error) {
	if len(n.Types) != 1 {
		return nil, cgerrors.NotSupported("relationship with more than one possible type at render time")
	}
	edgeDef, err := b.sch.LookupEdge(n.Types[0])
	if err != nil {
		return nil, err
	}

	strategy := schema.Traditional
	if sc, ok := n.SchemaContext.(schema.PatternSchemaContext); ok {
		strategy = sc.Strategy()
	}

	fromNode, toNode := n.Left, n.Right
	fromIDCol, toIDCol := edgeDef.FromIDColumn, edgeDef.ToIDColumn
	if n.Direction == lp.Incoming {
		fromNode, toNode = n.Right, n.Left
		fromIDCol, toIDCol = toIDCol, fromIDCol
	}

	if n.VariableLength != nil {
		return b.compileVariableLengthRel(n, edgeDef, strategy, fromNode, toNode, fromIDCol, toIDCol)
	}

	if n.PathAlias != "" {
		// A fixed single hop always has length 1; a variable-length one
		// is handled inside compileVariableLengthRel instead, where the
		// actual hop_count expression is produced.
		b.pathLengths[n.PathAlias] = rp.Literal{SQL: "1"}
	}

	// A single-hop relationship's own columns are reachable under its
	// own alias once its strategy joins a real row for it: register it
	// as a relationship alias (for the `RETURN r` envelope expansion,
	// §6.5) and, generically, as a virtual-node redirect onto itself so
	// `r.prop` resolves through the same resolve()/expandableProperties
	// path node aliases use. compileCoupledSameRow overrides this
	// immediately after with the shared row's own mapping.
	b.relAliases[n.Alias] = true
	b.virtualNodes[n.Alias] = virtualNode{physicalAlias: n.Alias, idColumn: fromIDCol, props: edgeDef.PropertyMapping}

	switch strategy {
	case schema.SingleTableScan:
		return b.compileSingleTableScan(n, edgeDef, fromNode, toNode, fromIDCol, toIDCol)
	case schema.MixedAccess:
		return b.compileMixedAccess(n, edgeDef, fromNode, toNode, fromIDCol, toIDCol)
	case schema.CoupledSameRow:
		return b.compileCoupledSameRow(n, edgeDef, fromNode, toNode, fromIDCol, toIDCol)
	case schema.EdgeToEdge:
		// Best-effort: a chained denormalized hop whose "left" is really
		// the previous hop's edge row is rendered as an ordinary
		// Traditional join against this hop's own edge table. It
		// produces correct rows whenever the previous hop already
		// resolved its own alias to a real table; it does not yet fold
		// the two edge rows into one, which a fully adapted
		// implementation would.
		return b.compileTraditional(n, edgeDef, fromNode, toNode, fromIDCol, toIDCol)
	default:
		return b.compileTraditional(n, edgeDef, fromNode, toNode, fromIDCol, toIDCol)
	}
}

func (b *Builder) compileTraditional(n *lp.GraphRel, edgeDef schema.EdgeDefinition, fromNode, toNode *lp.GraphNode, fromIDCol, toIDCol string) (*source, error) {
	edgeRef, err := tableRef(edgeDef.Table, n.Alias, edgeDef.ViewParameters, b.ctx)
	if err != nil {
		return nil, err
	}

	var left *source
	if bridged, ok := b.virtualNodes[fromNode.Alias]; ok && b.isBridgeOnly(fromNode) {
		// fromNode's own table was elided by the previous hop (it's a
		// bridge-only interior node, §4.8): its identity lives on that
		// hop's edge row, so this hop starts from its own edge row and
		// links straight to the previous one by id, never joining a row
		// for fromNode at all.
		left = &source{from: rp.FromClause{Ref: edgeRef}}
		left.filters = append(left.filters,
			rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: bridged.physicalAlias, Column: bridged.idColumn}, Right: rp.ColumnRef{Alias: n.Alias, Column: fromIDCol}},
		)
	} else {
		left, err = b.compileSource(fromNode)
		if err != nil {
			return nil, err
		}
		left.from.Joins = append(left.from.Joins, rp.Join{
			Kind: rp.InnerJoin,
			Ref:  edgeRef,
			On:   rp.Literal{SQL: "true"},
		})
		left.filters = append(left.filters,
			rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: fromNode.Alias, Column: idColumnOf(b, fromNode)}, Right: rp.ColumnRef{Alias: n.Alias, Column: fromIDCol}},
		)
	}

	if b.isBridgeOnly(toNode) {
		// Elide toNode's own table entirely: register a redirect so the
		// next hop sharing this node links to it by this edge's own
		// toIDCol instead of joining a row nobody downstream reads.
		b.virtualNodes[toNode.Alias] = virtualNode{physicalAlias: n.Alias, idColumn: toIDCol}
	} else {
		right, err := b.compileSource(toNode)
		if err != nil {
			return nil, err
		}
		left.from.Joins = append(left.from.Joins, rp.Join{
			Kind: rp.InnerJoin,
			Ref:  right.from.Ref,
			On:   rp.Literal{SQL: "true"},
		})
		left.from.Joins = append(left.from.Joins, right.from.Joins...)
		left.filters = append(left.filters,
			rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: n.Alias, Column: toIDCol}, Right: rp.ColumnRef{Alias: toNode.Alias, Column: idColumnOf(b, toNode)}},
		)
		left.filters = append(left.filters, right.filters...)
	}

	if n.ConstraintsExpr != nil {
		c, err := b.translateExpr(n.ConstraintsExpr)
		if err != nil {
			return nil, err
		}
		left.filters = append(left.filters, c)
	}
	return left, nil
}

func idColumnOf(b *Builder, node *lp.GraphNode) string {
	if tc := b.ctx.Aliases[node.Alias]; tc != nil {
		return tc.IDColumn
	}
	return "id"
}

// isBridgeOnly reports whether node was classified as a bridge-only
// interior hinge by the analyzer (BridgeNodeDetection, §4.8): present
// purely to connect two adjacent hops, with no downstream reader of its
// own columns.
func (b *Builder) isBridgeOnly(node *lp.GraphNode) bool {
	tc := b.ctx.Aliases[node.Alias]
	return tc != nil && tc.IsBridgeOnly
}

// compileSingleTableScan handles a hop where both endpoints are
// denormalized into the edge row itself: the FROM source is the edge
// table alone, and both node aliases become virtual redirections onto
// it rather than separate joins.
func (b *Builder) compileSingleTableScan(n *lp.GraphRel, edgeDef schema.EdgeDefinition, fromNode, toNode *lp.GraphNode, fromIDCol, toIDCol string) (*source, error) {
	b.virtualNodes[fromNode.Alias] = virtualNode{physicalAlias: n.Alias, idColumn: fromIDCol, props: edgeDef.FromNodeProperties}
	b.virtualNodes[toNode.Alias] = virtualNode{physicalAlias: n.Alias, idColumn: toIDCol, props: edgeDef.ToNodeProperties}

	ref, err := tableRef(edgeDef.Table, n.Alias, edgeDef.ViewParameters, b.ctx)
	if err != nil {
		return nil, err
	}
	src := &source{from: rp.FromClause{Ref: ref}}
	if n.ConstraintsExpr != nil {
		c, err := b.translateExpr(n.ConstraintsExpr)
		if err != nil {
			return nil, err
		}
		src.filters = append(src.filters, c)
	}
	return src, nil
}

// compileMixedAccess handles a hop with exactly one denormalized
// endpoint: the edge table is scanned directly (supplying the virtual
// endpoint's columns), joined to the other endpoint's own table.
func (b *Builder) compileMixedAccess(n *lp.GraphRel, edgeDef schema.EdgeDefinition, fromNode, toNode *lp.GraphNode, fromIDCol, toIDCol string) (*source, error) {
	fromVirtual := fromNode.IsDenormalized
	ref, err := tableRef(edgeDef.Table, n.Alias, edgeDef.ViewParameters, b.ctx)
	if err != nil {
		return nil, err
	}
	src := &source{from: rp.FromClause{Ref: ref}}

	var ownNode *lp.GraphNode
	var ownIDCol string
	if fromVirtual {
		b.virtualNodes[fromNode.Alias] = virtualNode{physicalAlias: n.Alias, idColumn: fromIDCol, props: edgeDef.FromNodeProperties}
		ownNode, ownIDCol = toNode, toIDCol
	} else {
		b.virtualNodes[toNode.Alias] = virtualNode{physicalAlias: n.Alias, idColumn: toIDCol, props: edgeDef.ToNodeProperties}
		ownNode, ownIDCol = fromNode, fromIDCol
	}

	ownSrc, err := b.compileSource(ownNode)
	if err != nil {
		return nil, err
	}
	src.from.Joins = append(src.from.Joins, rp.Join{Kind: rp.InnerJoin, Ref: ownSrc.from.Ref, On: rp.Literal{SQL: "true"}})
	src.from.Joins = append(src.from.Joins, ownSrc.from.Joins...)
	src.filters = append(src.filters,
		rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: n.Alias, Column: ownIDCol}, Right: rp.ColumnRef{Alias: ownNode.Alias, Column: idColumnOf(b, ownNode)}},
	)
	src.filters = append(src.filters, ownSrc.filters...)

	if n.ConstraintsExpr != nil {
		c, err := b.translateExpr(n.ConstraintsExpr)
		if err != nil {
			return nil, err
		}
		src.filters = append(src.filters, c)
	}
	return src, nil
}

// compileCoupledSameRow handles an FK-style edge sharing a physical
// table with one of its endpoints: that endpoint's own scan already
// carries the edge's columns, so only the other endpoint needs an
// actual join, against the shared row directly rather than a
// separately-aliased edge table.
func (b *Builder) compileCoupledSameRow(n *lp.GraphRel, edgeDef schema.EdgeDefinition, fromNode, toNode *lp.GraphNode, fromIDCol, toIDCol string) (*source, error) {
	fromShared := edgeDef.Table == tableNameOf(b, fromNode)
	var sharedNode, otherNode *lp.GraphNode
	var sharedIDCol, otherIDCol string
	if fromShared {
		sharedNode, otherNode = fromNode, toNode
		sharedIDCol, otherIDCol = fromIDCol, toIDCol
	} else {
		sharedNode, otherNode = toNode, fromNode
		sharedIDCol, otherIDCol = toIDCol, fromIDCol
	}

	sharedSrc, err := b.compileSource(sharedNode)
	if err != nil {
		return nil, err
	}
	// The edge's columns live on the shared node's own row; bind the
	// relationship alias onto the same physical row by treating it like
	// any other virtual node with the edge's property mapping.
	b.virtualNodes[n.Alias] = virtualNode{physicalAlias: sharedNode.Alias, idColumn: sharedIDCol, props: edgeDef.PropertyMapping}

	otherSrc, err := b.compileSource(otherNode)
	if err != nil {
		return nil, err
	}
	sharedSrc.from.Joins = append(sharedSrc.from.Joins, rp.Join{Kind: rp.InnerJoin, Ref: otherSrc.from.Ref, On: rp.Literal{SQL: "true"}})
	sharedSrc.from.Joins = append(sharedSrc.from.Joins, otherSrc.from.Joins...)
	sharedSrc.filters = append(sharedSrc.filters,
		rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: sharedNode.Alias, Column: otherIDCol}, Right: rp.ColumnRef{Alias: otherNode.Alias, Column: idColumnOf(b, otherNode)}},
	)
	sharedSrc.filters = append(sharedSrc.filters, otherSrc.filters...)

	if n.ConstraintsExpr != nil {
		c, err := b.translateExpr(n.ConstraintsExpr)
		if err != nil {
			return nil, err
		}
		sharedSrc.filters = append(sharedSrc.filters, c)
	}
	return sharedSrc, nil
}

func tableNameOf(b *Builder, node *lp.GraphNode) string {
	if tc := b.ctx.Aliases[node.Alias]; tc != nil {
		return tc.Table
	}
	return ""
}
