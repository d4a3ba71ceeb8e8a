package optimizer

import (
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/exprutil"
	"github.com/clickgraph/clickgraph/internal/lp"
)

// PushDownFilters splits a Filter sitting above a PatternJoin into its
// conjuncts and moves each conjunct down onto whichever side (left,
// right, or neither if it references both) actually binds every alias
// it touches, so the render builder can place a predicate at the
// narrowest scan instead of re-evaluating it after every join.
func PushDownFilters(plan lp.Plan) (lp.Plan, error) {
	return rewritePlan(plan, func(p lp.Plan) (lp.Plan, error) {
		f, ok := p.(*lp.Filter)
		if !ok {
			return p, nil
		}
		join, ok := f.Input.(*lp.PatternJoin)
		if !ok || join.Optional {
			// Never push a predicate below an OPTIONAL MATCH's right
			// side: doing so would turn a left-outer join into an
			// inner join by filtering out the unmatched rows it's
			// meant to preserve.
			return f, nil
		}

		leftAliases := planAliases(join.Left)
		rightAliases := planAliases(join.Right)

		var stay, left, right []ast.Expr
		for _, conjunct := range exprutil.SplitConjuncts(f.Predicate) {
			aliases := conjunctAliases(conjunct)
			switch {
			case subsetOf(aliases, leftAliases):
				left = append(left, conjunct)
			case subsetOf(aliases, rightAliases):
				right = append(right, conjunct)
			default:
				stay = append(stay, conjunct)
			}
		}

		if len(left) > 0 {
			join.Left = &lp.Filter{Input: join.Left, Predicate: exprutil.JoinConjuncts(left)}
		}
		if len(right) > 0 {
			join.Right = &lp.Filter{Input: join.Right, Predicate: exprutil.JoinConjuncts(right)}
		}

		if len(stay) == 0 {
			return join, nil
		}
		f.Predicate = exprutil.JoinConjuncts(stay)
		return f, nil
	})
}

func conjunctAliases(e ast.Expr) map[string]bool {
	out := make(map[string]bool)
	for _, v := range exprutil.Variables(e) {
		out[v.Name] = true
	}
	for _, pa := range exprutil.PropertyAccesses(e) {
		out[pa.Target.(ast.Variable).Name] = true
	}
	return out
}

func subsetOf(aliases, universe map[string]bool) bool {
	if len(aliases) == 0 {
		return false
	}
	for a := range aliases {
		if !universe[a] {
			return false
		}
	}
	return true
}
