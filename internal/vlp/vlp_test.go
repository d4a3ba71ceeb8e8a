package vlp

import (
	"testing"

	"github.com/clickgraph/clickgraph/internal/rp"
)

func countJoins(joins []rp.Join, table string) int {
	n := 0
	for _, j := range joins {
		if j.Ref.Name == table {
			n++
		}
	}
	return n
}

func TestFixedExpandsKHops(t *testing.T) {
	hop := EdgeHop{Table: "follows", Alias: "r", FromIDColumn: "from_id", ToIDColumn: "to_id"}
	joins, filters := Fixed("a", "id", hop, "b", "id", 3)

	if got := countJoins(joins, "follows"); got != 3 {
		t.Fatalf("expected 3 hop joins, got %d", got)
	}
	// k equi-join filters + 1 end-binding + C(3,2) pairwise-distinct + 1 start!=end
	wantFilters := 3 + 1 + 3 + 1
	if len(filters) != wantFilters {
		t.Fatalf("expected %d filters, got %d", wantFilters, len(filters))
	}
}

func TestFixedSingleHopHasNoPairwiseFilters(t *testing.T) {
	hop := EdgeHop{Table: "follows", Alias: "r", FromIDColumn: "from_id", ToIDColumn: "to_id"}
	joins, filters := Fixed("a", "id", hop, "b", "id", 1)

	if len(joins) != 1 {
		t.Fatalf("expected 1 join, got %d", len(joins))
	}
	// 1 equi-join filter + 1 end-binding + 0 pairwise + 1 start!=end
	if len(filters) != 3 {
		t.Fatalf("expected 3 filters for a single hop, got %d", len(filters))
	}
}

func TestRecursiveAnchorSeedsHopCountAtMin(t *testing.T) {
	hop := EdgeHop{Table: "follows", Alias: "r", FromIDColumn: "from_id", ToIDColumn: "to_id"}
	joins, filters, pathNodes, curAlias, curIDCol := RecursiveAnchor("a", "id", hop, 2)

	if len(joins) != 2 {
		t.Fatalf("expected 2 anchor joins for min=2, got %d", len(joins))
	}
	if len(filters) != 2 {
		t.Fatalf("expected 2 anchor filters for min=2, got %d", len(filters))
	}
	call, ok := pathNodes.(rp.Call)
	if !ok || call.Name != "array" {
		t.Fatalf("expected path_nodes to be an array() call, got %#v", pathNodes)
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 path_nodes elements (start + 2 hops), got %d", len(call.Args))
	}
	if curIDCol != hop.ToIDColumn {
		t.Fatalf("expected current column to be the hop's to-column, got %q", curIDCol)
	}
	if curAlias == "a" {
		t.Fatalf("expected current alias to be the last hop alias, not the start alias")
	}
}

func TestRecursiveAnchorClampsZeroMinToOne(t *testing.T) {
	hop := EdgeHop{Table: "follows", Alias: "r", FromIDColumn: "from_id", ToIDColumn: "to_id"}
	joins, _, _, _, _ := RecursiveAnchor("a", "id", hop, 0)
	if len(joins) != 1 {
		t.Fatalf("expected min to clamp to 1 hop, got %d joins", len(joins))
	}
}

func TestRecursiveStepGuardsCycleAndDepth(t *testing.T) {
	hop := EdgeHop{Table: "follows", Alias: "r", FromIDColumn: "from_id", ToIDColumn: "to_id"}
	edgeAlias, joins, filters, nextCur, nextPath, nextHop := RecursiveStep("inner_1", hop, 5)

	if edgeAlias != "r_step" {
		t.Fatalf("expected edge alias %q, got %q", "r_step", edgeAlias)
	}
	if len(joins) != 1 {
		t.Fatalf("expected 1 join, got %d", len(joins))
	}
	if len(filters) != 3 {
		t.Fatalf("expected 3 guard filters (equi-join, cycle, depth), got %d", len(filters))
	}
	if _, ok := nextCur.(rp.ColumnRef); !ok {
		t.Fatalf("expected nextCurrentID to be a column ref, got %#v", nextCur)
	}
	if call, ok := nextPath.(rp.Call); !ok || call.Name != "arrayConcat" {
		t.Fatalf("expected nextPathNodes to be an arrayConcat() call, got %#v", nextPath)
	}
	if b, ok := nextHop.(rp.Binary); !ok || b.Op != rp.OpAdd {
		t.Fatalf("expected nextHopCount to be an addition, got %#v", nextHop)
	}
}

func TestWrapColumnsNamesTheFourTrackedFields(t *testing.T) {
	sel := WrapColumns("inner_1")
	want := []string{"path_start", "current_id", "path_nodes", "hop_count"}
	if len(sel.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(sel.Items))
	}
	for i, name := range want {
		if sel.Items[i].Alias != name {
			t.Fatalf("item %d: expected alias %q, got %q", i, name, sel.Items[i].Alias)
		}
		col, ok := sel.Items[i].Expr.(rp.ColumnRef)
		if !ok || col.Alias != "inner_1" || col.Column != name {
			t.Fatalf("item %d: expected column ref inner_1.%s, got %#v", i, name, sel.Items[i].Expr)
		}
	}
}
