package ast

import "testing"

func TestLiteralString(t *testing.T) {
	cases := []struct {
		lit  Literal
		want string
	}{
		{Literal{Kind: IntLiteral, I: 42}, "42"},
		{Literal{Kind: FloatLiteral, F: 3.5}, "3.5"},
		{Literal{Kind: StringLiteral, S: "hi"}, `"hi"`},
		{Literal{Kind: BoolLiteral, B: true}, "true"},
		{Literal{Kind: NullLiteral}, "null"},
	}
	for _, c := range cases {
		if got := c.lit.String(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func TestLiteralStringInvalidKind(t *testing.T) {
	lit := Literal{Kind: LiteralKind(99)}
	if got := lit.String(); got != "<invalid literal>" {
		t.Fatalf("got %q", got)
	}
}

func TestNodePatternIsAnonymous(t *testing.T) {
	named := NodePattern{Variable: "n"}
	if named.IsAnonymous() {
		t.Fatal("a node with a variable name is not anonymous")
	}
	anon := NodePattern{}
	if !anon.IsAnonymous() {
		t.Fatal("a node with no variable name is anonymous")
	}
}

func TestRelPatternIsAnonymous(t *testing.T) {
	named := RelPattern{Variable: "r"}
	if named.IsAnonymous() {
		t.Fatal("a relationship with a variable name is not anonymous")
	}
	anon := RelPattern{}
	if !anon.IsAnonymous() {
		t.Fatal("a relationship with no variable name is anonymous")
	}
}

func TestExprMarkerTypesImplementExpr(t *testing.T) {
	var exprs = []Expr{
		Variable{},
		PropertyAccess{},
		Parameter{},
		LiteralExpr{},
		ListExpr{},
		FunctionCall{},
		CaseExpr{},
		BinaryExpr{},
		UnaryExpr{},
		InExpr{},
		IsNullExpr{},
		IndexExpr{},
		SliceExpr{},
		PatternComprehensionExpr{},
	}
	for _, e := range exprs {
		if e == nil {
			t.Fatal("unexpected nil expr variant")
		}
	}
}

func TestClauseMarkerTypesImplementClause(t *testing.T) {
	var clauses = []Clause{
		MatchClause{},
		UnwindClause{},
		WithClause{},
		ReturnClause{},
	}
	for _, c := range clauses {
		if c == nil {
			t.Fatal("unexpected nil clause variant")
		}
	}
}
