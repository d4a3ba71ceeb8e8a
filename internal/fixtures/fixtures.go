// Package fixtures provides small, hand-built schema.GraphSchema
// catalogs for exercising the translation pipeline without a real YAML
// catalog loader. Each constructor returns a self-contained schema
// grounded on one of the shapes spec.md §8's end-to-end scenarios name
// (a plain User/FOLLOWS social graph) plus the denormalized/FK/
// polymorphic variants §4.9's join-strategy classification needs a
// schema of each kind to ever be exercised at all.
package fixtures

import (
	"sort"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// Schema is an in-memory schema.GraphSchema built directly from
// literal node/edge definitions, with no backing catalog file.
type Schema struct {
	nodes   map[string]schema.NodeDefinition
	edges   map[string]schema.EdgeDefinition
	coupled map[[2]string]bool
}

func newSchema() *Schema {
	return &Schema{
		nodes:   make(map[string]schema.NodeDefinition),
		edges:   make(map[string]schema.EdgeDefinition),
		coupled: make(map[[2]string]bool),
	}
}

func (s *Schema) LookupNode(label string) (schema.NodeDefinition, error) {
	d, ok := s.nodes[label]
	if !ok {
		return schema.NodeDefinition{}, cgerrors.NodeTableNotFound(label)
	}
	return d, nil
}

func (s *Schema) LookupEdge(edgeType string) (schema.EdgeDefinition, error) {
	d, ok := s.edges[edgeType]
	if !ok {
		return schema.EdgeDefinition{}, cgerrors.EdgeTypeNotConfigured(edgeType)
	}
	return d, nil
}

func (s *Schema) AllNodeTypes() []string {
	out := make([]string, 0, len(s.nodes))
	for k := range s.nodes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Schema) AllEdgeTypes() []string {
	out := make([]string, 0, len(s.edges))
	for k := range s.edges {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Schema) AreEdgesCoupled(typeA, typeB string) bool {
	return s.coupled[[2]string{typeA, typeB}] || s.coupled[[2]string{typeB, typeA}]
}

func (s *Schema) addNode(d schema.NodeDefinition) { s.nodes[d.Label] = d }
func (s *Schema) addEdge(d schema.EdgeDefinition)  { s.edges[d.Type] = d }

// SocialGraph is the User/FOLLOWS schema spec.md §8 scenarios 1-4 use:
// a plain `users` table keyed by `user_id`, and a separate `follows`
// edge table — the Traditional join-strategy case, and the only shape
// exercised by the fixed/bounded/unbounded/shortest-path variable-
// length scenarios (VLP is Traditional-only, see DESIGN.md).
func SocialGraph() *Schema {
	s := newSchema()
	s.addNode(schema.NodeDefinition{
		Label:    "User",
		Table:    "users",
		IDColumn: "user_id",
		PropertyMapping: map[string]string{
			"name":       "full_name",
			"user_id":    "user_id",
			"created_at": "created_at",
		},
	})
	s.addEdge(schema.EdgeDefinition{
		Kind:          schema.EdgeStandard,
		Type:          "FOLLOWS",
		Table:         "follows",
		FromIDColumn:  "from_user_id",
		ToIDColumn:    "to_user_id",
		FromNodeLabel: "User",
		ToNodeLabel:   "User",
		PropertyMapping: map[string]string{
			"since": "followed_at",
		},
		EdgeID: schema.EdgeIDColumns{Composite: []string{"from_user_id", "to_user_id"}},
	})
	return s
}

// MultiTenantSocialGraph is SocialGraph with the `users` table rebound
// to a parameterized view requiring `tenant_id` (§6.2): every
// translation against it must supply a tenant id (request context) or
// a matching `parameters["tenant_id"]` entry, or rendering raises
// MissingParameter.
func MultiTenantSocialGraph() *Schema {
	s := SocialGraph()
	u := s.nodes["User"]
	u.Table = "users_by_tenant"
	u.ViewParameters = []string{"tenant_id"}
	s.addNode(u)
	return s
}

// DenormalizedBlogGraph exercises the three non-Traditional join
// strategies (§4.9) alongside one Traditional edge, in a single
// schema:
//   - Author -[WROTE]-> Post: WROTE is an FK edge sharing the `posts`
//     table with Post itself (CoupledSameRow) — the post row's own
//     `author_id` column doubles as the edge.
//   - Post -[TAGGED]-> Tag: both endpoints are fully denormalized into
//     the `post_tags` table, which has no Post/Tag table of its own
//     for this relationship (SingleTableScan).
//   - Post -[COMMENTED_BY]-> Author: the edge table `comments` carries
//     the Post's own columns (denormalized) and joins out to a real
//     `authors` table for the other end (MixedAccess).
//   - Author -[FOLLOWS]-> Author: a plain separate-table edge
//     (Traditional), so a query mixing strategies has a control case.
func DenormalizedBlogGraph() *Schema {
	s := newSchema()
	s.addNode(schema.NodeDefinition{
		Label:    "Author",
		Table:    "authors",
		IDColumn: "author_id",
		PropertyMapping: map[string]string{
			"name": "display_name",
		},
	})
	s.addNode(schema.NodeDefinition{
		Label:    "Post",
		Table:    "posts",
		IDColumn: "post_id",
		PropertyMapping: map[string]string{
			"title": "title",
		},
	})
	s.addNode(schema.NodeDefinition{
		Label: "Tag",
		FromNodeProperties: map[string]string{
			"name": "tag_name",
		},
	})

	s.addEdge(schema.EdgeDefinition{
		Kind:          schema.EdgeStandard,
		Type:          "WROTE",
		Table:         "posts",
		FromIDColumn:  "author_id",
		ToIDColumn:    "post_id",
		FromNodeLabel: "Author",
		ToNodeLabel:   "Post",
	})
	s.addEdge(schema.EdgeDefinition{
		Kind:          schema.EdgeStandard,
		Type:          "TAGGED",
		Table:         "post_tags",
		FromIDColumn:  "post_id",
		ToIDColumn:    "tag_id",
		FromNodeLabel: "Post",
		ToNodeLabel:   "Tag",
		FromNodeProperties: map[string]string{
			"title": "post_title",
		},
		ToNodeProperties: map[string]string{
			"name": "tag_name",
		},
	})
	s.addEdge(schema.EdgeDefinition{
		Kind:          schema.EdgeStandard,
		Type:          "COMMENTED_BY",
		Table:         "comments",
		FromIDColumn:  "post_id",
		ToIDColumn:    "author_id",
		FromNodeLabel: "Post",
		ToNodeLabel:   "Author",
		FromNodeProperties: map[string]string{
			"title": "post_title_snapshot",
		},
		PropertyMapping: map[string]string{
			"body": "comment_body",
		},
	})
	s.addEdge(schema.EdgeDefinition{
		Kind:          schema.EdgeStandard,
		Type:          "FOLLOWS",
		Table:         "author_follows",
		FromIDColumn:  "from_author_id",
		ToIDColumn:    "to_author_id",
		FromNodeLabel: "Author",
		ToNodeLabel:   "Author",
	})

	return s
}
