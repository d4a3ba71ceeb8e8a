package schema

// NodeAccessKind classifies how a pattern's node-side is reached (§4.9).
type NodeAccessKind int

const (
	OwnTable NodeAccessKind = iota
	EmbeddedInEdgeFrom
	EmbeddedInEdgeTo
	Virtual
)

// EdgeAccessKind classifies how the pattern's edge-side is reached (§4.9).
type EdgeAccessKind int

const (
	SeparateTable EdgeAccessKind = iota
	PolymorphicAccess
	FkEdgeAccess
)

// JoinStrategy is the cross product of NodeAccessKind x NodeAccessKind x
// EdgeAccessKind, collapsed to the enum §4.6 pattern-matches exhaustively
// over.
type JoinStrategy int

const (
	Traditional JoinStrategy = iota
	SingleTableScan
	MixedAccess
	EdgeToEdge
	CoupledSameRow
)

func (j JoinStrategy) String() string {
	switch j {
	case Traditional:
		return "Traditional"
	case SingleTableScan:
		return "SingleTableScan"
	case MixedAccess:
		return "MixedAccess"
	case EdgeToEdge:
		return "EdgeToEdge"
	case CoupledSameRow:
		return "CoupledSameRow"
	default:
		return "Unknown"
	}
}

// PatternSchemaContext is the per-pattern classification that drives join
// strategy (§4.9). All schema-variant reasoning is centralized here;
// downstream components (the render plan builder) pattern-match
// exhaustively over JoinStrategy rather than re-deriving it.
type PatternSchemaContext struct {
	LeftAccess  NodeAccessKind
	RightAccess NodeAccessKind
	EdgeAccess  EdgeAccessKind

	// EdgeToEdgePrev is set when EdgeAccess came from classifying a second
	// (or later) hop of a denormalized multi-hop chain: the left node is
	// virtual because it is really the previous hop's edge row.
	EdgeToEdgePrev bool
}

// Strategy performs the exhaustive cross-product dispatch from access
// kinds to a concrete join strategy.
func (c PatternSchemaContext) Strategy() JoinStrategy {
	switch {
	case c.EdgeToEdgePrev:
		return EdgeToEdge
	case c.EdgeAccess == FkEdgeAccess:
		return CoupledSameRow
	case c.LeftAccess == Virtual && c.RightAccess == Virtual:
		return SingleTableScan
	case c.LeftAccess != OwnTable && c.RightAccess != OwnTable:
		return SingleTableScan
	case c.LeftAccess != OwnTable || c.RightAccess != OwnTable:
		return MixedAccess
	default:
		return Traditional
	}
}

// ClassifyPattern builds the PatternSchemaContext for one hop of a pattern,
// given the left/right node definitions (zero value when the end is
// anonymous and unresolved) and the edge definition.
func ClassifyPattern(left NodeDefinition, edge EdgeDefinition, right NodeDefinition) PatternSchemaContext {
	ctx := PatternSchemaContext{}

	switch edge.Kind {
	case EdgePolymorphic:
		ctx.EdgeAccess = PolymorphicAccess
	default:
		if edge.IsFKEdge(left, right) {
			ctx.EdgeAccess = FkEdgeAccess
		} else {
			ctx.EdgeAccess = SeparateTable
		}
	}

	ctx.LeftAccess = classifyNodeAccess(left, edge, true)
	ctx.RightAccess = classifyNodeAccess(right, edge, false)

	return ctx
}

func classifyNodeAccess(node NodeDefinition, edge EdgeDefinition, isFromEnd bool) NodeAccessKind {
	denormalizedByEdge := len(edge.ToNodeProperties) > 0
	if isFromEnd {
		denormalizedByEdge = len(edge.FromNodeProperties) > 0
	}
	if denormalizedByEdge {
		if node.Table == "" {
			return Virtual
		}
		if isFromEnd {
			return EmbeddedInEdgeFrom
		}
		return EmbeddedInEdgeTo
	}
	if node.Table == "" && node.Label == "" {
		return Virtual
	}
	return OwnTable
}
