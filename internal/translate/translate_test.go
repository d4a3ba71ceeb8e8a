package translate

import (
	"context"
	"strings"
	"testing"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/fixtures"
)

func TestTranslateSimpleMatchReturn(t *testing.T) {
	res, err := Translate(context.Background(), `MATCH (u:User) RETURN u.name`, fixtures.SocialGraph(), nil, nil, DefaultConfig)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(res.SQL, "full_name") {
		t.Fatalf("expected the resolved column in the SQL, got %q", res.SQL)
	}
	if res.ParameterizedViewsUsed {
		t.Fatal("SocialGraph has no parameterized views")
	}
}

func TestTranslateRejectsSyntaxError(t *testing.T) {
	_, err := Translate(context.Background(), `MATCH (u RETURN u`, fixtures.SocialGraph(), nil, nil, DefaultConfig)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestTranslateMultiTenantRequiresTenantID(t *testing.T) {
	_, err := Translate(context.Background(), `MATCH (u:User) RETURN u.name`, fixtures.MultiTenantSocialGraph(), nil, nil, DefaultConfig)
	if err == nil {
		t.Fatal("expected MissingParameter without a tenant id bound")
	}
}

func TestTranslateMultiTenantWithTenantIDMarksParameterizedView(t *testing.T) {
	tenant := "acme"
	res, err := Translate(context.Background(), `MATCH (u:User) RETURN u.name`, fixtures.MultiTenantSocialGraph(), &tenant, nil, DefaultConfig)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !res.ParameterizedViewsUsed {
		t.Fatal("expected ParameterizedViewsUsed once tenant_id resolves")
	}
	if !strings.Contains(res.SQL, "acme") {
		t.Fatalf("expected the tenant id literal in the SQL, got %q", res.SQL)
	}
}

func TestTranslateBindsQueryParameter(t *testing.T) {
	params := map[string]ast.Literal{"name": {Kind: ast.StringLiteral, S: "ada"}}
	res, err := Translate(context.Background(), `MATCH (u:User) WHERE u.name = $name RETURN u.name`, fixtures.SocialGraph(), nil, params, DefaultConfig)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(res.SQL, "ada") {
		t.Fatalf("expected the bound parameter value in the SQL, got %q", res.SQL)
	}
}

func TestLiteralToAnyConvertsEveryKind(t *testing.T) {
	cases := []struct {
		lit  ast.Literal
		want any
	}{
		{ast.Literal{Kind: ast.IntLiteral, I: 7}, int64(7)},
		{ast.Literal{Kind: ast.FloatLiteral, F: 1.5}, 1.5},
		{ast.Literal{Kind: ast.StringLiteral, S: "x"}, "x"},
		{ast.Literal{Kind: ast.BoolLiteral, B: true}, true},
		{ast.Literal{Kind: ast.NullLiteral}, nil},
	}
	for _, c := range cases {
		if got := literalToAny(c.lit); got != c.want {
			t.Fatalf("literalToAny(%#v) = %v, want %v", c.lit, got, c.want)
		}
	}
}

func TestLiteralToAnyConvertsList(t *testing.T) {
	lit := ast.Literal{Kind: ast.ListLiteralKind, List: []ast.Literal{
		{Kind: ast.IntLiteral, I: 1},
		{Kind: ast.IntLiteral, I: 2},
	}}
	got, ok := literalToAny(lit).([]any)
	if !ok || len(got) != 2 || got[0] != int64(1) || got[1] != int64(2) {
		t.Fatalf("got %#v", got)
	}
}
