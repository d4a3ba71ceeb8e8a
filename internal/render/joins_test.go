package render

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/fixtures"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// TestBuildCoupledSameRowSharesPhysicalRow grounds the FK-edge shape
// (§4.6/§4.9): WROTE shares its table with Post, so only Author needs
// an actual join and WROTE's own alias resolves onto Post's row rather
// than a separately-aliased edge table.
func TestBuildCoupledSameRowSharesPhysicalRow(t *testing.T) {
	authorNode := &lp.GraphNode{Alias: "a", Label: "Author", Input: &lp.ViewScan{SourceTable: "authors", Alias: "a", IDColumn: "author_id"}}
	postNode := &lp.GraphNode{Alias: "p", Label: "Post", Input: &lp.ViewScan{SourceTable: "posts", Alias: "p", IDColumn: "post_id"}}
	rel := &lp.GraphRel{
		Alias: "w", Left: authorNode, Right: postNode, Types: []string{"WROTE"}, Direction: lp.Outgoing,
		SchemaContext: schema.PatternSchemaContext{LeftAccess: schema.OwnTable, RightAccess: schema.OwnTable, EdgeAccess: schema.FkEdgeAccess},
	}
	proj := &lp.Projection{Input: rel, Items: []lp.ProjectionItem{
		{Expr: ast.Variable{Name: "a"}},
		{Expr: ast.Variable{Name: "p"}},
	}}

	ctx := planctx.New()
	ctx.Aliases["a"] = &planctx.TableCtx{Table: "authors", IDColumn: "author_id", PropertyMapping: map[string]string{"name": "display_name"}}
	ctx.Aliases["p"] = &planctx.TableCtx{Table: "posts", IDColumn: "post_id", PropertyMapping: map[string]string{"title": "title"}}

	out, err := Build(proj, ctx, fixtures.DenormalizedBlogGraph(), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := emit(t, out)
	want := `SELECT a.author_id AS "a.id", a.display_name AS "a.name", p.post_id AS "p.id", p.title AS "p.title" ` +
		`FROM posts AS p INNER JOIN authors AS a ON true WHERE (p.author_id = a.author_id)`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestBuildSingleTableScanResolvesBothEndpointsOntoEdgeRow grounds the
// fully denormalized shape: neither endpoint has a table of its own,
// so the relationship's own edge table is the only FROM source and
// both node aliases become virtual redirections onto it.
func TestBuildSingleTableScanResolvesBothEndpointsOntoEdgeRow(t *testing.T) {
	postNode := &lp.GraphNode{Alias: "p", Label: "Post", Input: lp.Empty{}, IsDenormalized: true}
	tagNode := &lp.GraphNode{Alias: "g", Label: "Tag", Input: lp.Empty{}, IsDenormalized: true}
	rel := &lp.GraphRel{
		Alias: "t", Left: postNode, Right: tagNode, Types: []string{"TAGGED"}, Direction: lp.Outgoing,
		SchemaContext: schema.PatternSchemaContext{LeftAccess: schema.Virtual, RightAccess: schema.Virtual, EdgeAccess: schema.SeparateTable},
	}
	proj := &lp.Projection{Input: rel, Items: []lp.ProjectionItem{
		{Expr: ast.Variable{Name: "p"}},
		{Expr: ast.Variable{Name: "g"}},
	}}

	out, err := Build(proj, planctx.New(), fixtures.DenormalizedBlogGraph(), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := emit(t, out)
	want := `SELECT t.post_id AS "p.id", t.post_title AS "p.title", t.tag_id AS "g.id", t.tag_name AS "g.name" FROM post_tags AS t`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestBuildMixedAccessJoinsOnlyTheOwnTableEndpoint grounds the shape
// with exactly one denormalized endpoint: the edge table supplies the
// virtual endpoint's columns directly, joined out to the other
// endpoint's own table.
func TestBuildMixedAccessJoinsOnlyTheOwnTableEndpoint(t *testing.T) {
	postNode := &lp.GraphNode{Alias: "p", Label: "Post", Input: lp.Empty{}, IsDenormalized: true}
	authorNode := &lp.GraphNode{Alias: "a", Label: "Author", Input: &lp.ViewScan{SourceTable: "authors", Alias: "a", IDColumn: "author_id"}}
	rel := &lp.GraphRel{
		Alias: "c", Left: postNode, Right: authorNode, Types: []string{"COMMENTED_BY"}, Direction: lp.Outgoing,
		SchemaContext: schema.PatternSchemaContext{LeftAccess: schema.Virtual, RightAccess: schema.OwnTable, EdgeAccess: schema.SeparateTable},
	}
	proj := &lp.Projection{Input: rel, Items: []lp.ProjectionItem{
		{Expr: ast.Variable{Name: "p"}},
		{Expr: ast.Variable{Name: "a"}},
	}}

	ctx := planctx.New()
	ctx.Aliases["a"] = &planctx.TableCtx{Table: "authors", IDColumn: "author_id", PropertyMapping: map[string]string{"name": "display_name"}}

	out, err := Build(proj, ctx, fixtures.DenormalizedBlogGraph(), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := emit(t, out)
	want := `SELECT c.post_id AS "p.id", c.post_title_snapshot AS "p.title", a.author_id AS "a.id", a.display_name AS "a.name" ` +
		`FROM comments AS c INNER JOIN authors AS a ON true WHERE (c.author_id = a.author_id)`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
