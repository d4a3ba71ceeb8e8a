package schema

// GraphSchema is the read-only catalog the translation core depends on. It
// is produced by an external loader (YAML parsing, remote config) and is
// safe to share, lock-free, across every concurrent translation once built.
type GraphSchema interface {
	LookupNode(label string) (NodeDefinition, error)
	LookupEdge(edgeType string) (EdgeDefinition, error)

	AllNodeTypes() []string
	AllEdgeTypes() []string

	// AreEdgesCoupled reports whether two edge types are coupled: they
	// share a physical table and, for the pattern being evaluated, one
	// edge's ToIDColumn equals the other's FromIDColumn.
	AreEdgesCoupled(typeA, typeB string) bool
}

// NodeTypesWithProperty returns every node label in sch whose definition
// maps prop to a physical column. Used by Track C property-based UNION
// pruning (§4.4 pass 6) to narrow an untyped pattern's candidate set.
func NodeTypesWithProperty(sch GraphSchema, prop string) []string {
	var out []string
	for _, label := range sch.AllNodeTypes() {
		def, err := sch.LookupNode(label)
		if err != nil {
			continue
		}
		if def.HasProperty(prop) {
			out = append(out, label)
		}
	}
	return out
}

// NodeTypesForEdgeEnd returns the candidate labels for one end of an edge
// pattern: the edge's declared From/To label when the edge type is known
// and singular, or every node type adjacent to any of edgeTypes otherwise.
func NodeTypesForEdgeEnd(sch GraphSchema, edgeTypes []string, wantFromEnd bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range edgeTypes {
		def, err := sch.LookupEdge(t)
		if err != nil || def.Kind != EdgeStandard {
			continue
		}
		label := def.ToNodeLabel
		if wantFromEnd {
			label = def.FromNodeLabel
		}
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
