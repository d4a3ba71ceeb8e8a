// Package rp defines the Render Plan: the second closed sum type the
// render builder produces from an analyzed, optimized Logical Plan, and
// the emitter turns into SQL text. RenderExpr is kept structurally
// distinct from ast.Expr because by this stage every property access
// has already resolved to a physical column reference.
package rp

// Expr is the closed sum type of render-time expressions. Every field
// reference has already been resolved to a concrete SQL alias/column.
type Expr interface {
	isRenderExpr()
}

// ColumnRef is `alias.column`, fully resolved.
type ColumnRef struct {
	Alias  string
	Column string
}

func (ColumnRef) isRenderExpr() {}

// Raw is an already-formatted SQL fragment, used for pieces the render
// builder has composed itself (anyLast wrapping, array helpers,
// coalesce guards) rather than re-deriving from an ast.Expr.
type Raw struct {
	SQL string
}

func (Raw) isRenderExpr() {}

// Literal is a scalar constant rendered verbatim by the emitter.
type Literal struct {
	SQL string // pre-formatted (quoted string, numeric literal, NULL, ...)
}

func (Literal) isRenderExpr() {}

// Param is a bound query parameter (a Cypher `$name` reference)
// substituted at emission time rather than left as a ClickHouse
// placeholder. View parameters are not Params: they are bound into
// TableRef.Parameters.
type Param struct {
	Name string
}

func (Param) isRenderExpr() {}

type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
)

type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (Binary) isRenderExpr() {}

type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

type Unary struct {
	Op      UnaryOp
	Operand Expr
}

func (Unary) isRenderExpr() {}

// IsNull is `Operand IS [NOT] NULL`.
type IsNull struct {
	Operand Expr
	Negated bool
}

func (IsNull) isRenderExpr() {}

// Call is a scalar/aggregate function call already resolved to its
// ClickHouse name (anyLast, concat, arrayStringConcat, ...).
type Call struct {
	Name     string
	Distinct bool
	Args     []Expr
}

func (Call) isRenderExpr() {}

// Subquery is a scalar subquery used in an expression position (an
// allShortestPaths bound: `hop_count = (SELECT MIN(hop_count) FROM
// inner)`).
type Subquery struct {
	Plan *Plan
}

func (Subquery) isRenderExpr() {}

// SelectItem is one projected column: Expr AS Alias.
type SelectItem struct {
	Expr  Expr
	Alias string // the quoted result-column name, e.g. `u.name`
}

type SelectClause struct {
	Items    []SelectItem
	Distinct bool
}

// JoinKind is the SQL join kind used to combine FromClause.Ref with a
// Join's table.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	ArrayJoinKind
	LeftArrayJoinKind
)

// TableRef is one FROM/JOIN source: a physical table, a parameterized
// view, or a previously-registered CTE, always given a SQL alias.
type TableRef struct {
	Name       string
	Alias      string
	Parameters map[string]string // rendered as table(p1 = 'v1', ...) when non-empty
}

// Join is one JOIN clause attached to the FROM source. For an
// ArrayJoinKind/LeftArrayJoinKind join, ArrayExpr carries the unwound
// array expression and Ref.Alias its bound name; Ref.Name and On are
// unused in that case.
type Join struct {
	Kind      JoinKind
	Ref       TableRef
	On        Expr
	ArrayExpr Expr
}

type FromClause struct {
	Ref   TableRef
	Joins []Join
}

// OrderKey is one ORDER BY entry.
type OrderKey struct {
	Expr Expr
	Desc bool
}

// VLPMetadata is carried on a Cte produced by the variable-length-path
// generator so a later alias-rewrite step can map the Cypher-level
// start/end aliases back onto whichever SQL alias this CTE's branch
// actually produced.
type VLPMetadata struct {
	CypherStartAlias string
	CypherEndAlias   string
	SQLStartAlias    string
	SQLEndAlias      string
}

// Cte is one named common table expression. Body is a Plan: CTE bodies
// are plain SELECT fragments and may never themselves contain a WITH.
// A CTE produced by unioning several branches (bidirectional/multi-type
// expansion, or a VLP generator's forward/reverse pair) sets Union
// instead of Body; exactly one of the two is non-nil.
type Cte struct {
	Name        string
	IsRecursive bool
	Body        *Plan
	Union       []*Plan
	VLPMetadata *VLPMetadata // nil for an ordinary (non-VLP) CTE
}

// Plan is the render plan: one SELECT statement (or CTE body) plus the
// ordered list of CTEs it depends on.
type Plan struct {
	Ctes []Cte

	Select  SelectClause
	From    FromClause
	Filters Expr // nil if none
	GroupBy []Expr
	Having  Expr // nil if none
	OrderBy []OrderKey
	Skip    Expr
	Limit   Expr
}
