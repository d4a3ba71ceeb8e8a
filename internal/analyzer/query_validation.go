package analyzer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/schema"
)

// QueryValidation is the final analyzer pass: every alias referenced by
// an expression must be visible in the scope that expression is
// evaluated in (a WITH boundary collapses scope down to its exported
// aliases). GROUP BY coverage is not re-checked here: ProjectionTagging
// builds every GroupBy's Keys from exactly the projection's
// non-aggregate items, so each of them is a key by construction.
func QueryValidation(plan lp.Plan, ctx *planctx.Ctx, sch schema.GraphSchema) (lp.Plan, error) {
	_, err := scopeAndValidate(plan)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

type aliasSet map[string]bool

func union(sets ...aliasSet) aliasSet {
	out := make(aliasSet)
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}

// scopeAndValidate computes the set of aliases visible to whatever sits
// directly above p, validating every expression p itself carries against
// the scope of p's own input as it goes.
func scopeAndValidate(p lp.Plan) (aliasSet, error) {
	switch n := p.(type) {
	case nil, lp.Empty:
		return aliasSet{}, nil

	case *lp.ViewScan:
		return aliasSet{}, nil

	case *lp.GraphNode:
		inputScope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		if n.Alias != "" {
			inputScope[n.Alias] = true
		}
		return inputScope, nil

	case *lp.GraphRel:
		left, err := scopeAndValidate(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := scopeAndValidate(n.Right)
		if err != nil {
			return nil, err
		}
		center, err := scopeAndValidate(n.Center)
		if err != nil {
			return nil, err
		}
		scope := union(left, right, center)
		if n.Alias != "" {
			scope[n.Alias] = true
		}
		if n.PathAlias != "" {
			scope[n.PathAlias] = true
		}
		if n.ConstraintsExpr != nil {
			if err := checkExpr(n.ConstraintsExpr, scope); err != nil {
				return nil, err
			}
		}
		return scope, nil

	case *lp.PatternJoin:
		left, err := scopeAndValidate(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := scopeAndValidate(n.Right)
		if err != nil {
			return nil, err
		}
		return union(left, right), nil

	case *lp.Filter:
		scope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		if err := checkExpr(n.Predicate, scope); err != nil {
			return nil, err
		}
		return scope, nil

	case *lp.Projection:
		scope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		if err := checkItems(n.Items, scope); err != nil {
			return nil, err
		}
		return scope, nil

	case *lp.WithClause:
		scope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		if err := checkItems(n.Items, scope); err != nil {
			return nil, err
		}
		if n.Where != nil {
			if err := checkExpr(n.Where, scope); err != nil {
				return nil, err
			}
		}
		for _, k := range n.OrderBy {
			if err := checkExpr(k.Expr, scope); err != nil {
				return nil, err
			}
		}
		exported := make(aliasSet, len(n.ExportedAliases))
		for _, a := range n.ExportedAliases {
			exported[a] = true
		}
		return exported, nil

	case *lp.GroupBy:
		scope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		if err := checkItems(n.Keys, scope); err != nil {
			return nil, err
		}
		for _, a := range n.Aggregates {
			if a.Arg != nil {
				if err := checkExpr(a.Arg, scope); err != nil {
					return nil, err
				}
			}
		}
		return scope, nil

	case *lp.Unwind:
		scope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		if n.Expression != nil {
			if err := checkExpr(n.Expression, scope); err != nil {
				return nil, err
			}
		}
		scope[n.Alias] = true
		return scope, nil

	case *lp.Union:
		var scope aliasSet
		for _, in := range n.Inputs {
			s, err := scopeAndValidate(in)
			if err != nil {
				return nil, err
			}
			if scope == nil {
				scope = s
			}
		}
		return scope, nil

	case *lp.Limit:
		scope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		return scope, nil

	case *lp.OrderBy:
		scope, err := scopeAndValidate(n.Input)
		if err != nil {
			return nil, err
		}
		for _, k := range n.Keys {
			if err := checkExpr(k.Expr, scope); err != nil {
				return nil, err
			}
		}
		return scope, nil

	default:
		return aliasSet{}, nil
	}
}

func checkItems(items []lp.ProjectionItem, scope aliasSet) error {
	for _, it := range items {
		if it.Expr == nil {
			continue
		}
		if err := checkExpr(it.Expr, scope); err != nil {
			return err
		}
	}
	return nil
}

func checkExpr(e ast.Expr, scope aliasSet) error {
	for _, v := range exprutil.Variables(e) {
		if !scope[v.Name] {
			return cgerrors.UnresolvedAlias(v.Name)
		}
	}
	for _, pa := range exprutil.PropertyAccesses(e) {
		v := pa.Target.(ast.Variable)
		if !scope[v.Name] {
			return cgerrors.ScopeViolation(v.Name, "current")
		}
	}
	return nil
}
