package render

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/rp"
)

// compileSource renders a row-producing subtree (everything below the
// first Projection/WithClause/GroupBy) into a FROM clause plus
// accumulated WHERE conjuncts.
func (b *Builder) compileSource(plan lp.Plan) (*source, error) {
	switch n := plan.(type) {
	case lp.Empty:
		return nil, cgerrors.NotSupported("unresolved pattern element reached render")

	case *lp.GraphNode:
		return b.compileGraphNode(n)

	case *lp.GraphRel:
		return b.compileGraphRel(n)

	case *lp.PatternJoin:
		return b.compilePatternJoin(n)

	case *lp.Filter:
		inner, err := b.compileSource(n.Input)
		if err != nil {
			return nil, err
		}
		pred, err := b.translateExpr(n.Predicate)
		if err != nil {
			return nil, err
		}
		inner.filters = append(inner.filters, pred)
		return inner, nil

	case *lp.Unwind:
		inner, err := b.compileSource(n.Input)
		if err != nil {
			return nil, err
		}
		for _, j := range inner.from.Joins {
			if j.Kind == rp.ArrayJoinKind || j.Kind == rp.LeftArrayJoinKind {
				return nil, cgerrors.NotSupported("chained UNWIND of distinct arrays")
			}
		}
		arr, err := b.translateExpr(n.Expression)
		if err != nil {
			return nil, err
		}
		kind := rp.ArrayJoinKind
		if call, ok := n.Expression.(ast.FunctionCall); ok && call.Name == "coalesce" {
			kind = rp.LeftArrayJoinKind
		}
		inner.from.Joins = append(inner.from.Joins, rp.Join{
			Kind:      kind,
			Ref:       rp.TableRef{Alias: n.Alias},
			ArrayExpr: arr,
		})
		return inner, nil

	case *lp.Union:
		return b.compileUnionSource(n)

	case *lp.WithClause:
		return b.compileWithClauseSource(n)

	default:
		return nil, cgerrors.NotSupported("plan shape cannot appear as a row source")
	}
}

func (b *Builder) compileGraphNode(n *lp.GraphNode) (*source, error) {
	if n.Unsatisfiable {
		return &source{
			from:    rp.FromClause{Ref: rp.TableRef{Name: "system.one", Alias: n.Alias}},
			filters: []rp.Expr{rp.Literal{SQL: "false"}},
		}, nil
	}
	vs, ok := n.Input.(*lp.ViewScan)
	if !ok {
		return nil, cgerrors.NodeTableNotFound(n.Label)
	}
	if n.Alias != "" && b.ctx.Aliases[n.Alias] == nil {
		// A branch of a multi-candidate node union (analyzer's
		// BidirectionalUnionExpansion): every branch binds the same
		// Cypher alias to a different label/table, so there is no single
		// ctx.Aliases entry for it the way an ordinarily-resolved node
		// gets at analysis time. Register this branch's own mapping as a
		// virtualNode instead, the same fallback compileGraphRel already
		// relies on for a relationship's own alias.
		b.virtualNodes[n.Alias] = virtualNode{physicalAlias: n.Alias, idColumn: vs.IDColumn, props: vs.PropertyMapping}
	}
	var filters []rp.Expr
	if vs.AdditionalFilter != nil {
		f, err := b.translateExpr(vs.AdditionalFilter)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	ref, err := tableRef(vs.SourceTable, n.Alias, vs.ViewParameters, b.ctx)
	if err != nil {
		return nil, err
	}
	return &source{
		from:    rp.FromClause{Ref: ref},
		filters: filters,
	}, nil
}

// tableRef resolves every name in viewParams against request context
// (tenant_id) then the parameters map (§6.2), raising MissingParameter
// for any it cannot resolve: a view declared with `view_parameters`
// requires every one of them bound, there is no optional subset.
func tableRef(name, alias string, viewParams []string, ctx *tableRefCtx) (rp.TableRef, error) {
	ref := rp.TableRef{Name: name, Alias: alias}
	if len(viewParams) == 0 {
		return ref, nil
	}
	ref.Parameters = make(map[string]string, len(viewParams))
	for _, p := range viewParams {
		v, ok := resolveViewParameter(p, ctx)
		if !ok {
			return rp.TableRef{}, cgerrors.MissingParameter(p)
		}
		ref.Parameters[p] = v
	}
	return ref, nil
}

// compilePatternJoin combines two already-built pattern subtrees with
// an (inner or left-outer) join: every hop's join is built `ON true`
// with its equi-join predicates carried as filters (see
// compileGraphRel), so joining two pattern trees at this level only has
// to concatenate their FROM/JOIN lists and AND their filters. The right
// side's own FROM table is joined with LEFT JOIN when this is an
// OPTIONAL MATCH (INNER JOIN otherwise); the right side's further joins
// are appended unchanged.
func (b *Builder) compilePatternJoin(n *lp.PatternJoin) (*source, error) {
	left, err := b.compileSource(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.compileSource(n.Right)
	if err != nil {
		return nil, err
	}

	joins := append([]rp.Join{}, right.from.Joins...)
	if n.Optional {
		joins = append([]rp.Join{{Kind: rp.LeftJoin, Ref: right.from.Ref, On: rp.Literal{SQL: "true"}}}, joins...)
	} else {
		joins = append([]rp.Join{{Kind: rp.InnerJoin, Ref: right.from.Ref, On: rp.Literal{SQL: "true"}}}, joins...)
	}

	left.from.Joins = append(left.from.Joins, joins...)
	left.filters = append(left.filters, right.filters...)
	return left, nil
}

// tableRefCtx is the request-scoped state view parameters resolve
// against (the tenant id, then the parameters map); tableRef and
// resolveViewParameter take it rather than the full Builder type.
type tableRefCtx = planctx.Ctx

func resolveViewParameter(name string, ctx *tableRefCtx) (string, bool) {
	if ctx.TenantID != "" && name == "tenant_id" {
		return ctx.TenantID, true
	}
	if v, ok := ctx.Parameters[name]; ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}
