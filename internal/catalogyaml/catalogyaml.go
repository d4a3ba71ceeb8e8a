// Package catalogyaml loads a schema.GraphSchema from a YAML catalog
// file: the external mapping document between Cypher labels/types and
// physical ClickHouse tables/columns that internal/schema only fixes
// the interface for.
package catalogyaml

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// Document is the top-level shape of a catalog YAML file.
type Document struct {
	Nodes        []NodeDoc   `yaml:"nodes"`
	Edges        []EdgeDoc   `yaml:"edges"`
	CoupledEdges [][2]string `yaml:"coupled_edges"`
}

// NodeDoc mirrors schema.NodeDefinition with yaml tags.
type NodeDoc struct {
	Label              string            `yaml:"label"`
	Database           string            `yaml:"database"`
	Table              string            `yaml:"table"`
	IDColumn           string            `yaml:"id_column"`
	PropertyMapping    map[string]string `yaml:"property_mapping"`
	FromNodeProperties map[string]string `yaml:"from_node_properties"`
	ToNodeProperties   map[string]string `yaml:"to_node_properties"`
	LabelColumn        string            `yaml:"label_column"`
	LabelValue         string            `yaml:"label_value"`
	ViewParameters     []string          `yaml:"view_parameters"`
}

func (n NodeDoc) toDefinition() schema.NodeDefinition {
	return schema.NodeDefinition{
		Label:              n.Label,
		Database:           n.Database,
		Table:              n.Table,
		IDColumn:           n.IDColumn,
		PropertyMapping:    n.PropertyMapping,
		FromNodeProperties: n.FromNodeProperties,
		ToNodeProperties:   n.ToNodeProperties,
		LabelColumn:        n.LabelColumn,
		LabelValue:         n.LabelValue,
		ViewParameters:     n.ViewParameters,
	}
}

// EdgeIDDoc mirrors schema.EdgeIDColumns with yaml tags.
type EdgeIDDoc struct {
	Single    string   `yaml:"single"`
	Composite []string `yaml:"composite"`
}

// EdgeDoc mirrors schema.EdgeDefinition with yaml tags. Kind is the
// string "standard" or "polymorphic"; an empty Kind loads as a standard
// edge, and any other value is rejected by toDefinition rather than
// silently defaulting, since a typo here would otherwise load as a
// standard edge on the wrong table.
type EdgeDoc struct {
	Kind               string            `yaml:"kind"`
	Type               string            `yaml:"type"`
	Table              string            `yaml:"table"`
	FromIDColumn       string            `yaml:"from_id_column"`
	ToIDColumn         string            `yaml:"to_id_column"`
	FromNodeLabel      string            `yaml:"from_node_label"`
	ToNodeLabel        string            `yaml:"to_node_label"`
	PropertyMapping    map[string]string `yaml:"property_mapping"`
	EdgeID             EdgeIDDoc         `yaml:"edge_id"`
	FromNodeProperties map[string]string `yaml:"from_node_properties"`
	ToNodeProperties   map[string]string `yaml:"to_node_properties"`
	ConstraintsExpr    string            `yaml:"constraints_expr"`
	TypeColumn         string            `yaml:"type_column"`
	FromLabelColumn    string            `yaml:"from_label_column"`
	ToLabelColumn      string            `yaml:"to_label_column"`
	TypeValues         map[string]string `yaml:"type_values"`
	ViewParameters     []string          `yaml:"view_parameters"`
}

func (e EdgeDoc) toDefinition() (schema.EdgeDefinition, error) {
	var kind schema.EdgeKind
	switch e.Kind {
	case "standard", "":
		kind = schema.EdgeStandard
	case "polymorphic":
		kind = schema.EdgePolymorphic
	default:
		return schema.EdgeDefinition{}, cgerrors.InvalidConfig("edges[].kind", fmt.Sprintf("%q is neither \"standard\" nor \"polymorphic\"", e.Kind))
	}
	return schema.EdgeDefinition{
		Kind:               kind,
		Type:               e.Type,
		Table:              e.Table,
		FromIDColumn:       e.FromIDColumn,
		ToIDColumn:         e.ToIDColumn,
		FromNodeLabel:      e.FromNodeLabel,
		ToNodeLabel:        e.ToNodeLabel,
		PropertyMapping:    e.PropertyMapping,
		EdgeID:             schema.EdgeIDColumns{Single: e.EdgeID.Single, Composite: e.EdgeID.Composite},
		FromNodeProperties: e.FromNodeProperties,
		ToNodeProperties:   e.ToNodeProperties,
		ConstraintsExpr:    e.ConstraintsExpr,
		TypeColumn:         e.TypeColumn,
		FromLabelColumn:    e.FromLabelColumn,
		ToLabelColumn:      e.ToLabelColumn,
		TypeValues:         e.TypeValues,
		ViewParameters:     e.ViewParameters,
	}, nil
}

// Catalog is the in-memory schema.GraphSchema built from a Document.
type Catalog struct {
	nodes   map[string]schema.NodeDefinition
	edges   map[string]schema.EdgeDefinition
	coupled map[[2]string]bool
}

func (c *Catalog) LookupNode(label string) (schema.NodeDefinition, error) {
	d, ok := c.nodes[label]
	if !ok {
		return schema.NodeDefinition{}, cgerrors.NodeTableNotFound(label)
	}
	return d, nil
}

func (c *Catalog) LookupEdge(edgeType string) (schema.EdgeDefinition, error) {
	d, ok := c.edges[edgeType]
	if !ok {
		return schema.EdgeDefinition{}, cgerrors.EdgeTypeNotConfigured(edgeType)
	}
	return d, nil
}

func (c *Catalog) AllNodeTypes() []string {
	out := make([]string, 0, len(c.nodes))
	for k := range c.nodes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) AllEdgeTypes() []string {
	out := make([]string, 0, len(c.edges))
	for k := range c.edges {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) AreEdgesCoupled(typeA, typeB string) bool {
	return c.coupled[[2]string{typeA, typeB}] || c.coupled[[2]string{typeB, typeA}]
}

// Build turns a parsed Document into a Catalog, rejecting a duplicate
// node label/edge type or an edge naming an undeclared endpoint label.
func Build(doc Document) (*Catalog, error) {
	c := &Catalog{
		nodes:   make(map[string]schema.NodeDefinition, len(doc.Nodes)),
		edges:   make(map[string]schema.EdgeDefinition, len(doc.Edges)),
		coupled: make(map[[2]string]bool, len(doc.CoupledEdges)),
	}
	for _, n := range doc.Nodes {
		if n.Label == "" {
			return nil, cgerrors.InvalidConfig("nodes[].label", "must not be empty")
		}
		if _, dup := c.nodes[n.Label]; dup {
			return nil, cgerrors.InvalidConfig("nodes[].label", fmt.Sprintf("duplicate label %q", n.Label))
		}
		c.nodes[n.Label] = n.toDefinition()
	}
	for _, e := range doc.Edges {
		if e.Type == "" {
			return nil, cgerrors.InvalidConfig("edges[].type", "must not be empty")
		}
		if _, dup := c.edges[e.Type]; dup {
			return nil, cgerrors.InvalidConfig("edges[].type", fmt.Sprintf("duplicate type %q", e.Type))
		}
		def, err := e.toDefinition()
		if err != nil {
			return nil, err
		}
		if def.Kind == schema.EdgeStandard {
			if _, ok := c.nodes[def.FromNodeLabel]; def.FromNodeLabel != "" && !ok {
				return nil, cgerrors.InvalidConfig("edges[].from_node_label", fmt.Sprintf("edge %q names undeclared label %q", e.Type, def.FromNodeLabel))
			}
			if _, ok := c.nodes[def.ToNodeLabel]; def.ToNodeLabel != "" && !ok {
				return nil, cgerrors.InvalidConfig("edges[].to_node_label", fmt.Sprintf("edge %q names undeclared label %q", e.Type, def.ToNodeLabel))
			}
		}
		c.edges[e.Type] = def
	}
	for _, pair := range doc.CoupledEdges {
		c.coupled[pair] = true
	}
	return c, nil
}

// Load reads and builds the catalog at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalogyaml: open %q: %w", path, err)
	}
	defer f.Close()
	c, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("catalogyaml: parse %q: %w", path, err)
	}
	return c, nil
}

// LoadFromReader decodes a catalog document from r and builds it.
func LoadFromReader(r io.Reader) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalogyaml: decode yaml: %w", err)
	}
	return Build(doc)
}
