package analyzer

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
)

func TestCTEColumnResolverAcceptsMatchingCounts(t *testing.T) {
	wc := &lp.WithClause{
		Input:           &lp.GraphNode{Alias: "u"},
		Items:           []lp.ProjectionItem{{Alias: "u"}, {Alias: "f"}},
		ExportedAliases: []string{"u", "f"},
	}
	if _, err := CTEColumnResolver(wc, planctx.New(), nil); err != nil {
		t.Fatalf("CTEColumnResolver: %v", err)
	}
}

func TestCTEColumnResolverRejectsMismatchedCounts(t *testing.T) {
	wc := &lp.WithClause{
		Input:           &lp.GraphNode{Alias: "u"},
		Items:           []lp.ProjectionItem{{Alias: "u"}},
		ExportedAliases: []string{"u", "f"},
	}
	_, err := CTEColumnResolver(wc, planctx.New(), nil)
	if err == nil {
		t.Fatal("expected an error for mismatched exported alias/item counts")
	}
	var ce *cgerrors.Error
	if !cgerrors.AsError(err, &ce) || ce.Kind != cgerrors.KindInvalidConfig {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
