// Package render builds a Render Plan from an analyzed, optimized
// Logical Plan: resolving every alias.prop reference to a physical (or
// CTE) column, choosing a join strategy per relationship via its
// PatternSchemaContext, and materializing every WithClause (and every
// union produced by bidirectional expansion) as a registered CTE.
package render

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/rp"
	"github.com/clickgraph/clickgraph/internal/schema"
	"github.com/clickgraph/clickgraph/internal/vlp"
)

// Builder holds the state threaded through one Logical Plan -> Render
// Plan translation: the CTE registry and, for every CTE already
// materialized, the (alias, property) -> output column map its SELECT
// list actually produced (the CTE Column Resolver's job, deferred here
// per its own doc comment).
type Builder struct {
	ctx *planctx.Ctx
	sch schema.GraphSchema
	cfg Config

	ctes       []rp.Cte
	cteNames   map[string]bool
	cteColumns map[string]map[string]map[string]string // cteName -> alias -> prop -> column

	// virtualNodes maps a denormalized node's Cypher alias onto the SQL
	// alias whose row actually carries its columns (an edge row it has
	// no table of its own apart from), per the node-access classification
	// a GraphRel's PatternSchemaContext assigns it.
	virtualNodes map[string]virtualNode

	// relAliases marks every alias a GraphRel bound, so a bare `RETURN r`
	// item can be told apart from a bare node-alias item and expanded
	// into the relationship-column envelope shape (§6.5) instead.
	relAliases map[string]bool

	// pathLengths maps a named path's alias (`p` in `p = (a)-[...]->(b)`)
	// onto the expression length(p) resolves to: a literal 1 for a fixed
	// single hop, or the traversal's hop_count column for a
	// variable-length one. Kept separate from cteColumns since it
	// sometimes resolves to a literal with no CTE behind it at all.
	pathLengths map[string]rp.Expr
}

// virtualNode records where a denormalized node's properties actually
// live: physicalAlias is the SQL alias of the row (almost always the
// owning edge's alias), idColumn its identity column on that row, and
// props its Cypher-property -> physical-column mapping.
type virtualNode struct {
	physicalAlias string
	idColumn      string
	props         map[string]string
}

// Config carries the emission-affecting limits the translation caller
// supplies. It is the same shape the variable-length path generator
// bounds its recursive CTEs with, kept as one type rather than two so
// a caller only ever sets MaxRecursiveCTEDepth in one place.
type Config = vlp.Config

// Build renders plan (already analyzed and optimized) into a Render
// Plan against sch and the analysis state in ctx.
func Build(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema, cfg Config) (*rp.Plan, error) {
	b := &Builder{
		ctx:          ctx,
		sch:          sch,
		cfg:          cfg,
		cteNames:     make(map[string]bool),
		cteColumns:   make(map[string]map[string]map[string]string),
		virtualNodes: make(map[string]virtualNode),
		relAliases:   make(map[string]bool),
		pathLengths:  make(map[string]rp.Expr),
	}
	out, err := b.renderQuery(plan)
	if err != nil {
		return nil, err
	}
	out.Ctes = b.ctes
	return out, nil
}

func (b *Builder) registerCTE(c rp.Cte) {
	b.ctes = append(b.ctes, c)
	b.cteNames[c.Name] = true
}

// source is what any plan node that contributes rows (rather than
// shaping a final SELECT) compiles down to: a FROM clause plus
// accumulated WHERE conjuncts, and enough alias bookkeeping to resolve
// property references seen above it in the tree.
type source struct {
	from    rp.FromClause
	filters []rp.Expr
}

func notBound(alias string) error {
	return cgerrors.UnresolvedAlias(alias)
}

// resolve turns a Cypher `alias.prop` reference into a render-time
// column, preferring a live pattern-node binding (ctx.Aliases) and
// falling back to the column map of whichever CTE most recently
// exported that alias, per the CTE Column Resolver contract (§4.4 pass
// 11): never guess a name, always read the map built when the CTE's
// SELECT list was actually constructed.
func (b *Builder) resolve(alias, prop string) (rp.Expr, error) {
	if vn, ok := b.virtualNodes[alias]; ok {
		if prop == "id" {
			return rp.ColumnRef{Alias: vn.physicalAlias, Column: vn.idColumn}, nil
		}
		if col, ok := vn.props[prop]; ok {
			return rp.ColumnRef{Alias: vn.physicalAlias, Column: col}, nil
		}
		return nil, cgerrors.PropertyNotMapped(prop, alias)
	}
	if tc := b.ctx.Aliases[alias]; tc != nil {
		if prop == "id" {
			return rp.ColumnRef{Alias: alias, Column: tc.IDColumn}, nil
		}
		if col, ok := tc.PropertyMapping[prop]; ok {
			return rp.ColumnRef{Alias: alias, Column: col}, nil
		}
	}
	for i := len(b.ctes) - 1; i >= 0; i-- {
		cte := b.ctes[i]
		cols := b.cteColumns[cte.Name]
		if cols == nil {
			continue
		}
		if byProp, ok := cols[alias]; ok {
			if col, ok := byProp[prop]; ok {
				return rp.ColumnRef{Alias: cte.Name, Column: col}, nil
			}
		}
	}
	return nil, cgerrors.PropertyNotMapped(prop, alias)
}

// resolveScalar looks up a bare variable reference (`RETURN cnt`) that
// names a CTE-exported scalar (an aggregate alias, or anything else
// exported under its own name rather than as `alias.prop`), trying the
// most recently registered CTE outward.
func (b *Builder) resolveScalar(name string) (rp.Expr, bool) {
	if e, ok := b.pathLengths[name]; ok {
		return e, true
	}
	for i := len(b.ctes) - 1; i >= 0; i-- {
		cte := b.ctes[i]
		cols := b.cteColumns[cte.Name]
		if byProp, ok := cols[name]; ok {
			if col, ok := byProp[""]; ok {
				return rp.ColumnRef{Alias: cte.Name, Column: col}, true
			}
		}
	}
	return nil, false
}

// translateExpr converts a fully-analyzed ast.Expr into its rp.Expr
// equivalent, resolving every property access and bare CTE-scalar
// reference along the way.
func (b *Builder) translateExpr(e ast.Expr) (rp.Expr, error) {
	switch n := e.(type) {
	case nil:
		return nil, nil
	case ast.LiteralExpr:
		return literalExpr(n.Value), nil
	case ast.Parameter:
		return rp.Param{Name: n.Name}, nil
	case ast.Variable:
		if expr, ok := b.resolveScalar(n.Name); ok {
			return expr, nil
		}
		return nil, cgerrors.NotSupported("bare alias reference outside a projection item: " + n.Name)
	case ast.PropertyAccess:
		v, ok := n.Target.(ast.Variable)
		if !ok {
			return nil, cgerrors.NotSupported("property access on a non-variable target")
		}
		return b.resolve(v.Name, n.Property)
	case ast.BinaryExpr:
		return b.translateBinary(n)
	case ast.UnaryExpr:
		operand, err := b.translateExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		op := rp.OpNeg
		if n.Op == ast.OpNot {
			op = rp.OpNot
		}
		return rp.Unary{Op: op, Operand: operand}, nil
	case ast.IsNullExpr:
		if v, ok := n.Operand.(ast.Variable); ok {
			if _, isScalar := b.resolveScalar(v.Name); !isScalar {
				return b.translateAliasIsNull(v.Name, n.Negated)
			}
		}
		operand, err := b.translateExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return rp.IsNull{Operand: operand, Negated: n.Negated}, nil
	case ast.FunctionCall:
		return b.translateCall(n)
	case ast.ListExpr:
		args := make([]rp.Expr, len(n.Items))
		for i, it := range n.Items {
			v, err := b.translateExpr(it)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return rp.Call{Name: "array", Args: args}, nil
	case ast.IndexExpr:
		target, err := b.translateExpr(n.Target)
		if err != nil {
			return nil, err
		}
		idx, err := b.translateExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return rp.Call{Name: "arrayElement", Args: []rp.Expr{target, idx}}, nil
	case ast.InExpr:
		left, err := b.translateExpr(n.Left)
		if err != nil {
			return nil, err
		}
		list, err := b.translateExpr(n.List)
		if err != nil {
			return nil, err
		}
		return rp.Call{Name: "has", Args: []rp.Expr{list, left}}, nil
	default:
		return nil, cgerrors.NotSupported("expression form cannot be rendered to SQL")
	}
}

// translateAliasIsNull expands `alias IS [NOT] NULL` into a
// conjunction/disjunction over every column alias maps to (§4.7): a
// bare alias has no single column of its own to test, so IS NULL
// conjuncts every column's own IS NULL (the row is entirely absent,
// the shape an OPTIONAL MATCH miss leaves behind) and IS NOT NULL
// disjuncts every column's IS NOT NULL (any one column present is
// enough to prove the row matched).
func (b *Builder) translateAliasIsNull(alias string, negated bool) (rp.Expr, error) {
	idExpr, err := b.resolve(alias, "id")
	if err != nil {
		return nil, err
	}
	checks := []rp.Expr{rp.IsNull{Operand: idExpr, Negated: negated}}
	props, err := b.expandableProperties(alias)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		col, err := b.resolve(alias, p)
		if err != nil {
			return nil, err
		}
		checks = append(checks, rp.IsNull{Operand: col, Negated: negated})
	}
	combine := rp.OpAnd
	if negated {
		combine = rp.OpOr
	}
	out := checks[0]
	for _, c := range checks[1:] {
		out = rp.Binary{Op: combine, Left: out, Right: c}
	}
	return out, nil
}

func (b *Builder) translateBinary(n ast.BinaryExpr) (rp.Expr, error) {
	left, err := b.translateExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.translateExpr(n.Right)
	if err != nil {
		return nil, err
	}
	if n.Op == ast.OpAdd && (isStringExpr(n.Left) || isStringExpr(n.Right)) {
		return rp.Call{Name: "concat", Args: []rp.Expr{left, right}}, nil
	}
	op, err := binaryOp(n.Op)
	if err != nil {
		return nil, err
	}
	return rp.Binary{Op: op, Left: left, Right: right}, nil
}

func isStringExpr(e ast.Expr) bool {
	switch n := e.(type) {
	case ast.LiteralExpr:
		return n.Value.Kind == ast.StringLiteral
	case ast.FunctionCall:
		return n.Name == "concat" || n.Name == "toString"
	default:
		return false
	}
}

func binaryOp(op ast.BinaryOp) (rp.BinaryOp, error) {
	switch op {
	case ast.OpAnd:
		return rp.OpAnd, nil
	case ast.OpOr:
		return rp.OpOr, nil
	case ast.OpEq:
		return rp.OpEq, nil
	case ast.OpNe:
		return rp.OpNe, nil
	case ast.OpLt:
		return rp.OpLt, nil
	case ast.OpLe:
		return rp.OpLe, nil
	case ast.OpGt:
		return rp.OpGt, nil
	case ast.OpGe:
		return rp.OpGe, nil
	case ast.OpAdd:
		return rp.OpAdd, nil
	case ast.OpSub:
		return rp.OpSub, nil
	case ast.OpMul:
		return rp.OpMul, nil
	case ast.OpDiv:
		return rp.OpDiv, nil
	case ast.OpMod:
		return rp.OpMod, nil
	default:
		return 0, cgerrors.NotSupported("binary operator cannot be rendered to SQL")
	}
}

// translateCall emits a function call verbatim (`length(arr)`,
// `has(arr, v)`, ...) with one exception: `length(p)` on a named path
// variable isn't ClickHouse's array-length builtin, it's the path's own
// hop count, already resolved to a literal or a VLP CTE's hop_count
// column in b.pathLengths — substituting that expression directly
// keeps `length(p)` from becoming a bogus SQL `length(1)` call.
func (b *Builder) translateCall(n ast.FunctionCall) (rp.Expr, error) {
	if n.Name == "length" && len(n.Args) == 1 {
		if v, ok := n.Args[0].(ast.Variable); ok {
			if e, ok := b.pathLengths[v.Name]; ok {
				return e, nil
			}
		}
	}
	args := make([]rp.Expr, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := b.translateExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return rp.Call{Name: n.Name, Distinct: n.Distinct, Args: args}, nil
}

func literalExpr(l ast.Literal) rp.Expr {
	return rp.Literal{SQL: formatLiteral(l)}
}
