package lp

import "testing"

func ptrInt(i int) *int { return &i }

func TestVariableLengthIsFixed(t *testing.T) {
	fixed := VariableLength{Min: 2, Max: ptrInt(2)}
	if !fixed.IsFixed() {
		t.Fatal("min==max should be fixed")
	}

	bounded := VariableLength{Min: 1, Max: ptrInt(3)}
	if bounded.IsFixed() {
		t.Fatal("a real range should not be fixed")
	}

	unbounded := VariableLength{Min: 1}
	if unbounded.IsFixed() {
		t.Fatal("a nil Max (unbounded) should never be fixed")
	}
}

func TestVariableLengthIsSingleHop(t *testing.T) {
	single := VariableLength{Min: 1, Max: ptrInt(1)}
	if !single.IsSingleHop() {
		t.Fatal("min=1, max=1 is a single hop")
	}

	twoHop := VariableLength{Min: 2, Max: ptrInt(2)}
	if twoHop.IsSingleHop() {
		t.Fatal("a fixed 2-hop is not a single hop")
	}

	unbounded := VariableLength{Min: 1}
	if unbounded.IsSingleHop() {
		t.Fatal("an unbounded range is not a single hop even with Min=1")
	}
}

func TestPlanMarkerTypesImplementPlan(t *testing.T) {
	var plans = []Plan{
		Empty{},
		&ViewScan{},
		&GraphNode{},
		&GraphRel{},
		&Projection{},
		&Filter{},
		&WithClause{},
		&GroupBy{},
		&Unwind{},
		&Union{},
		&Limit{},
		&OrderBy{},
		&PatternJoin{},
	}
	for _, p := range plans {
		if p == nil {
			t.Fatal("unexpected nil plan variant")
		}
	}
}
