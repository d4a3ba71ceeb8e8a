package emitter

import (
	"strings"
	"testing"

	"github.com/clickgraph/clickgraph/internal/rp"
)

func simplePlan() *rp.Plan {
	return &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.ColumnRef{Alias: "u", Column: "name"}, Alias: "u.name"},
		}},
		From: rp.FromClause{Ref: rp.TableRef{Name: "users", Alias: "u"}},
	}
}

func TestEmitSimpleSelect(t *testing.T) {
	sql, err := Emit(simplePlan(), nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.HasPrefix(sql, `SELECT u.name AS "u.name" FROM users AS u`) {
		t.Errorf("Emit = %q", sql)
	}
}

func TestEmitQuotesIdentifiersNeedingIt(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.ColumnRef{Alias: "u", Column: "weird col"}, Alias: "u.weird col"},
		}},
		From: rp.FromClause{Ref: rp.TableRef{Name: "users", Alias: "u"}},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "u.`weird col`") {
		t.Errorf("expected backtick-quoted column, got %q", sql)
	}
	if !strings.Contains(sql, `"u.weird col"`) {
		t.Errorf("expected double-quoted result alias, got %q", sql)
	}
}

func TestEmitFiltersAndJoin(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.ColumnRef{Alias: "u", Column: "id"}, Alias: "u.id"},
		}},
		From: rp.FromClause{
			Ref: rp.TableRef{Name: "users", Alias: "u"},
			Joins: []rp.Join{
				{Kind: rp.InnerJoin, Ref: rp.TableRef{Name: "follows", Alias: "r"}, On: rp.Literal{SQL: "true"}},
			},
		},
		Filters: rp.Binary{
			Op:    rp.OpEq,
			Left:  rp.ColumnRef{Alias: "u", Column: "id"},
			Right: rp.ColumnRef{Alias: "r", Column: "from_id"},
		},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "INNER JOIN follows AS r ON true") {
		t.Errorf("missing join clause: %q", sql)
	}
	if !strings.Contains(sql, "WHERE (u.id = r.from_id)") {
		t.Errorf("missing where clause: %q", sql)
	}
}

func TestEmitViewParameters(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.ColumnRef{Alias: "u", Column: "id"}, Alias: "u.id"}}},
		From: rp.FromClause{Ref: rp.TableRef{
			Name:       "users_view",
			Alias:      "u",
			Parameters: map[string]string{"tenant_id": "acme"},
		}},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "users_view(tenant_id = 'acme') AS u") {
		t.Errorf("missing parameterized view form: %q", sql)
	}
}

func TestEmitSystemOneTableNotQuotedAsOneIdentifier(t *testing.T) {
	plan := &rp.Plan{
		Select:  rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.Literal{SQL: "false"}, Alias: "x"}}},
		From:    rp.FromClause{Ref: rp.TableRef{Name: "system.one", Alias: "u"}},
		Filters: rp.Literal{SQL: "false"},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "FROM system.one AS u") {
		t.Errorf("expected unquoted qualified table name, got %q", sql)
	}
}

func TestEmitParamSubstitution(t *testing.T) {
	plan := &rp.Plan{
		Select:  rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.ColumnRef{Alias: "u", Column: "id"}, Alias: "u.id"}}},
		From:    rp.FromClause{Ref: rp.TableRef{Name: "users", Alias: "u"}},
		Filters: rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: "u", Column: "name"}, Right: rp.Param{Name: "name"}},
	}
	sql, err := Emit(plan, map[string]any{"name": "alice"})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "u.name = 'alice'") {
		t.Errorf("missing substituted param: %q", sql)
	}
}

func TestEmitMissingParamErrors(t *testing.T) {
	plan := &rp.Plan{
		Select:  rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.ColumnRef{Alias: "u", Column: "id"}, Alias: "u.id"}}},
		From:    rp.FromClause{Ref: rp.TableRef{Name: "users", Alias: "u"}},
		Filters: rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: "u", Column: "name"}, Right: rp.Param{Name: "name"}},
	}
	if _, err := Emit(plan, nil); err == nil {
		t.Fatal("expected MissingParameter error")
	}
}

func TestEmitArrayLiteralAndFunctions(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.Call{Name: "array", Args: []rp.Expr{rp.Literal{SQL: "1"}, rp.Literal{SQL: "2"}}}, Alias: "xs"},
			{Expr: rp.Call{Name: "has", Args: []rp.Expr{rp.ColumnRef{Alias: "u", Column: "tags"}, rp.Literal{SQL: "'x'"}}}, Alias: "hasX"},
		}},
		From: rp.FromClause{Ref: rp.TableRef{Name: "users", Alias: "u"}},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "[1, 2]") {
		t.Errorf("expected bracket list syntax, got %q", sql)
	}
	if !strings.Contains(sql, "has(u.tags, 'x')") {
		t.Errorf("expected verbatim has() call, got %q", sql)
	}
}

func TestEmitLambdaBearingFunctionRejected(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.Call{Name: "arrayMap", Args: []rp.Expr{rp.ColumnRef{Alias: "u", Column: "tags"}}}, Alias: "mapped"},
		}},
		From: rp.FromClause{Ref: rp.TableRef{Name: "users", Alias: "u"}},
	}
	if _, err := Emit(plan, nil); err == nil {
		t.Fatal("expected NotSupported for arrayMap")
	}
}

func TestEmitArrayJoinForUnwind(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.Raw{SQL: "x"}, Alias: "x"},
		}},
		From: rp.FromClause{
			Ref: rp.TableRef{Name: "users", Alias: "u"},
			Joins: []rp.Join{
				{Kind: rp.ArrayJoinKind, Ref: rp.TableRef{Alias: "x"}, ArrayExpr: rp.ColumnRef{Alias: "u", Column: "tags"}},
			},
		},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "ARRAY JOIN u.tags AS x") {
		t.Errorf("missing ARRAY JOIN clause: %q", sql)
	}
}

func TestEmitLeftArrayJoin(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.Literal{SQL: "1"}, Alias: "one"}}},
		From: rp.FromClause{
			Ref: rp.TableRef{Name: "users", Alias: "u"},
			Joins: []rp.Join{
				{Kind: rp.LeftArrayJoinKind, Ref: rp.TableRef{Alias: "x"}, ArrayExpr: rp.Call{Name: "coalesce", Args: []rp.Expr{rp.ColumnRef{Alias: "u", Column: "tags"}, rp.Call{Name: "array", Args: nil}}}},
			},
		},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "LEFT ARRAY JOIN coalesce(u.tags, []) AS x") {
		t.Errorf("missing LEFT ARRAY JOIN clause: %q", sql)
	}
}

func TestEmitRecursiveCteUnion(t *testing.T) {
	anchor := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.ColumnRef{Alias: "a", Column: "id"}, Alias: "current_id"}}},
		From:   rp.FromClause{Ref: rp.TableRef{Name: "nodes", Alias: "a"}},
	}
	step := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.ColumnRef{Alias: "inner_cte", Column: "current_id"}, Alias: "current_id"}}},
		From:   rp.FromClause{Ref: rp.TableRef{Name: "inner_cte", Alias: "inner_cte"}},
	}
	plan := &rp.Plan{
		Ctes: []rp.Cte{{Name: "inner_cte", IsRecursive: true, Union: []*rp.Plan{anchor, step}}},
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.ColumnRef{Alias: "inner_cte", Column: "current_id"}, Alias: "result"},
		}},
		From: rp.FromClause{Ref: rp.TableRef{Name: "inner_cte", Alias: "inner_cte"}},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.HasPrefix(sql, "WITH RECURSIVE inner_cte AS (") {
		t.Errorf("expected WITH RECURSIVE prefix: %q", sql)
	}
	if !strings.Contains(sql, "FROM nodes AS a UNION ALL SELECT") {
		t.Errorf("expected UNION ALL between anchor and step: %q", sql)
	}
}

func TestEmitSubquery(t *testing.T) {
	inner := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{
			{Expr: rp.Call{Name: "MIN", Args: []rp.Expr{rp.ColumnRef{Alias: "t", Column: "hop_count"}}}, Alias: "m"},
		}},
		From: rp.FromClause{Ref: rp.TableRef{Name: "t", Alias: "t"}},
	}
	plan := &rp.Plan{
		Select:  rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.ColumnRef{Alias: "t", Column: "hop_count"}, Alias: "hop_count"}}},
		From:    rp.FromClause{Ref: rp.TableRef{Name: "t", Alias: "t"}},
		Filters: rp.Binary{Op: rp.OpEq, Left: rp.ColumnRef{Alias: "t", Column: "hop_count"}, Right: rp.Subquery{Plan: inner}},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(sql, "(SELECT MIN(t.hop_count) AS m FROM t AS t)") {
		t.Errorf("missing rendered subquery: %q", sql)
	}
}

func TestEmitLimitAndOffset(t *testing.T) {
	plan := &rp.Plan{
		Select: rp.SelectClause{Items: []rp.SelectItem{{Expr: rp.ColumnRef{Alias: "u", Column: "id"}, Alias: "u.id"}}},
		From:   rp.FromClause{Ref: rp.TableRef{Name: "users", Alias: "u"}},
		Limit:  rp.Literal{SQL: "10"},
		Skip:   rp.Literal{SQL: "5"},
	}
	sql, err := Emit(plan, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.HasSuffix(sql, "LIMIT 10 OFFSET 5") {
		t.Errorf("unexpected limit/offset tail: %q", sql)
	}
}
