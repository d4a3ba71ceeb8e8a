// Package lp defines the Logical Plan: the closed sum type the analyzer
// and optimizer passes operate on between AST and render plan.
package lp

import "github.com/clickgraph/clickgraph/internal/ast"

// Plan is the closed sum type of logical plan nodes. Every variant
// implements the unexported marker so the set is closed to this package.
type Plan interface {
	isPlan()
}

// Empty is a placeholder for an anonymous node/edge not yet resolved to a
// concrete scan, or for a pattern eliminated by union pruning.
type Empty struct{}

func (Empty) isPlan() {}

// ViewScan is a scan over a physical table, possibly a virtual
// denormalized or polymorphic view. It is the sole source of
// schema-derived metadata downstream passes consult.
type ViewScan struct {
	SourceTable string
	Alias       string
	IDColumn    string
	// PropertyMapping maps a Cypher property name to its physical column.
	PropertyMapping map[string]string

	FromNodeProperties map[string]string // set only for a denormalized edge-as-node view
	ToNodeProperties   map[string]string

	TypeColumn      string // set only for a polymorphic scan
	TypeValues      []string
	FromLabelColumn string
	ToLabelColumn   string

	AdditionalFilter ast.Expr // nil if none

	ViewParameters []string
}

func (*ViewScan) isPlan() {}

// GraphNode wraps a scan with the graph-level concept of a pattern node.
type GraphNode struct {
	Alias          string
	Label          string // empty until schema inference resolves it
	Input          Plan   // *ViewScan or Empty
	IsDenormalized bool

	// Candidates holds more than one possible label for an untyped node
	// pending union expansion (property-based UNION pruning left more
	// than one type standing).
	Candidates []string
	// Unsatisfiable is set when union pruning eliminated every
	// candidate type; the node (and its pattern) contributes no rows.
	Unsatisfiable bool
}

func (*GraphNode) isPlan() {}

type ShortestMode int

const (
	NoShortest ShortestMode = iota
	Shortest
	AllShortest
)

type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Undirected
)

// VariableLength is the resolved hop-count range of a relationship.
type VariableLength struct {
	Min      int
	Max      *int // nil means unbounded
	Shortest ShortestMode
}

func (v VariableLength) IsFixed() bool {
	return v.Max != nil && *v.Max == v.Min
}

func (v VariableLength) IsSingleHop() bool {
	return v.Min == 1 && v.IsFixed()
}

// GraphRel is a relationship between two pattern nodes.
type GraphRel struct {
	Alias     string
	Left      *GraphNode
	Right     *GraphNode
	Center    Plan // *ViewScan or Empty; resolved edge-table scan
	Types     []string
	Direction Direction

	VariableLength  *VariableLength // nil for a single, fixed hop
	ConstraintsExpr ast.Expr        // nil if none

	// SchemaContext is attached by the graph-join-inference pass; it is
	// opaque to lp (defined in internal/schema) and consulted by the
	// render builder.
	SchemaContext interface{}

	// BranchMeta is set by bidirectional-union expansion on each
	// direction-specific branch of a relationship that was originally
	// undirected, recording which Cypher alias binds the branch's start
	// and end so the render builder can rewrite references back onto
	// whichever SQL alias that branch actually produces.
	BranchMeta *VLPMetadata

	// PathAlias is the `p` in `MATCH p = (a)-[...]->(b)`, bound here
	// when this is the pattern's only relationship. length(p) resolves
	// against it: 1 for a fixed single hop, the traversal's hop_count
	// for a variable-length one.
	PathAlias string
}

// VLPMetadata records the Cypher alias each side of a direction-specific
// union branch came from.
type VLPMetadata struct {
	CypherStartAlias string
	CypherEndAlias   string
}

func (*GraphRel) isPlan() {}

// ProjectionItem is one SELECT/WITH item carried through the logical
// plan, preserving source order.
type ProjectionItem struct {
	Expr     ast.Expr
	Alias    string
	Wildcard bool
}

type Projection struct {
	Input    Plan
	Items    []ProjectionItem
	Distinct bool
}

func (*Projection) isPlan() {}

type Filter struct {
	Input     Plan
	Predicate ast.Expr
}

func (*Filter) isPlan() {}

type SortKey struct {
	Expr       ast.Expr
	Descending bool
}

// WithClause is a scope barrier: only ExportedAliases are visible past it.
type WithClause struct {
	Input           Plan
	Items           []ProjectionItem
	ExportedAliases []string
	Distinct        bool
	Where           ast.Expr // nil if absent
	OrderBy         []SortKey
	Skip            ast.Expr
	Limit           ast.Expr

	// Name is the generated CTE name, assigned by the variable-resolver
	// pass via the centralized CTE-naming contract.
	Name string
}

func (*WithClause) isPlan() {}

// Aggregate describes one aggregate projection item (count(x), etc) built
// by projection tagging.
type Aggregate struct {
	FuncName string
	Arg      ast.Expr // nil for count(*)
	Distinct bool
	Alias    string
}

// GroupBy groups Input by Keys, producing Aggregates alongside.
type GroupBy struct {
	Input      Plan
	Keys       []ProjectionItem
	Aggregates []Aggregate
}

func (*GroupBy) isPlan() {}

type Unwind struct {
	Input            Plan
	Expression       ast.Expr
	Alias            string
	Label            string // optional, when unwinding a collected node alias
	TupleProperties  []string
}

func (*Unwind) isPlan() {}

type Union struct {
	Inputs []Plan
	All    bool
}

func (*Union) isPlan() {}

type Limit struct {
	Input Plan
	Skip  ast.Expr
	Count ast.Expr
}

func (*Limit) isPlan() {}

type OrderBy struct {
	Input Plan
	Keys  []SortKey
}

func (*OrderBy) isPlan() {}

// PatternJoin combines the pattern introduced by one MATCH clause with
// whatever pattern(s) preceded it in the same scope. Optional marks an
// OPTIONAL MATCH: Right is joined with left-outer semantics.
type PatternJoin struct {
	Left     Plan
	Right    Plan
	Optional bool
}

func (*PatternJoin) isPlan() {}

