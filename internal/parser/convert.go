package parser

import (
	"strings"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
)

// convertQuery turns a parsed rawQuery into an ast.Query.
func convertQuery(raw *rawQuery) (ast.Query, error) {
	first, err := convertSinglePart(raw.First)
	if err != nil {
		return ast.Query{}, err
	}

	q := ast.Query{Parts: []ast.SinglePartQuery{first}}
	for _, part := range raw.Rest {
		sp, err := convertSinglePart(part.Query)
		if err != nil {
			return ast.Query{}, err
		}
		q.Parts = append(q.Parts, sp)
		q.UnionAll = append(q.UnionAll, part.All)
	}
	return q, nil
}

func convertSinglePart(raw *rawSinglePartQuery) (ast.SinglePartQuery, error) {
	sp := ast.SinglePartQuery{Clauses: make([]ast.Clause, 0, len(raw.Clauses))}
	for _, c := range raw.Clauses {
		clause, err := convertClause(c)
		if err != nil {
			return ast.SinglePartQuery{}, err
		}
		sp.Clauses = append(sp.Clauses, clause)
	}
	return sp, nil
}

func convertClause(raw *rawClause) (ast.Clause, error) {
	switch {
	case raw.Match != nil:
		return convertMatch(raw.Match)
	case raw.Unwind != nil:
		return convertUnwind(raw.Unwind)
	case raw.With != nil:
		return convertWith(raw.With)
	case raw.Return != nil:
		return convertReturn(raw.Return)
	default:
		return nil, cgerrors.Syntax(0, 0, "empty clause")
	}
}

func convertMatch(raw *rawMatchClause) (ast.Clause, error) {
	pattern, err := convertPattern(raw.Pattern)
	if err != nil {
		return nil, err
	}
	var where ast.Expr
	if raw.Where != nil {
		where, err = convertExpr(raw.Where)
		if err != nil {
			return nil, err
		}
	}
	return ast.MatchClause{Optional: raw.Optional, Pattern: pattern, Where: where}, nil
}

func convertUnwind(raw *rawUnwindClause) (ast.Clause, error) {
	e, err := convertExpr(raw.Expr)
	if err != nil {
		return nil, err
	}
	return ast.UnwindClause{Expr: e, Variable: raw.Variable}, nil
}

func convertWith(raw *rawWithClause) (ast.Clause, error) {
	items, err := convertProjItems(raw.Items)
	if err != nil {
		return nil, err
	}
	var where ast.Expr
	if raw.Where != nil {
		where, err = convertExpr(raw.Where)
		if err != nil {
			return nil, err
		}
	}
	order, err := convertSortItems(raw.OrderBy)
	if err != nil {
		return nil, err
	}
	skip, err := convertOptExpr(raw.Skip)
	if err != nil {
		return nil, err
	}
	limit, err := convertOptExpr(raw.Limit)
	if err != nil {
		return nil, err
	}
	return ast.WithClause{
		Distinct: raw.Distinct,
		Items:    items,
		Where:    where,
		OrderBy:  order,
		Skip:     skip,
		Limit:    limit,
	}, nil
}

func convertReturn(raw *rawReturnClause) (ast.Clause, error) {
	items, err := convertProjItems(raw.Items)
	if err != nil {
		return nil, err
	}
	order, err := convertSortItems(raw.OrderBy)
	if err != nil {
		return nil, err
	}
	skip, err := convertOptExpr(raw.Skip)
	if err != nil {
		return nil, err
	}
	limit, err := convertOptExpr(raw.Limit)
	if err != nil {
		return nil, err
	}
	return ast.ReturnClause{
		Distinct: raw.Distinct,
		Items:    items,
		OrderBy:  order,
		Skip:     skip,
		Limit:    limit,
	}, nil
}

func convertProjItems(raw []*rawProjItem) ([]ast.ProjectionItem, error) {
	items := make([]ast.ProjectionItem, 0, len(raw))
	for _, p := range raw {
		if p.Wildcard {
			items = append(items, ast.ProjectionItem{Wildcard: true})
			continue
		}
		e, err := convertExpr(p.Expr)
		if err != nil {
			return nil, err
		}
		items = append(items, ast.ProjectionItem{Expr: e, Alias: p.Alias})
	}
	return items, nil
}

func convertSortItems(raw []*rawSortItem) ([]ast.SortItem, error) {
	items := make([]ast.SortItem, 0, len(raw))
	for _, s := range raw {
		e, err := convertExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		items = append(items, ast.SortItem{Expr: e, Descending: s.Descending})
	}
	return items, nil
}

func convertOptExpr(raw *rawExpr) (ast.Expr, error) {
	if raw == nil {
		return nil, nil
	}
	return convertExpr(raw)
}

// --- patterns ---------------------------------------------------------

func convertPattern(raw []*rawPatternPart) (ast.Pattern, error) {
	out := make(ast.Pattern, 0, len(raw))
	for _, p := range raw {
		part, err := convertPatternPart(p)
		if err != nil {
			return nil, err
		}
		out = append(out, part)
	}
	return out, nil
}

func convertPatternPart(raw *rawPatternPart) (ast.PatternPart, error) {
	if raw.Shortest != nil {
		elem, err := convertPatternElem(raw.Shortest.Elem)
		if err != nil {
			return ast.PatternPart{}, err
		}
		mode := ast.Shortest
		if raw.Shortest.All {
			mode = ast.AllShortest
		}
		return ast.PatternPart{PathVariable: raw.PathVariable, Shortest: mode, Element: elem}, nil
	}
	elem, err := convertPatternElem(raw.Plain)
	if err != nil {
		return ast.PatternPart{}, err
	}
	return ast.PatternPart{PathVariable: raw.PathVariable, Element: elem}, nil
}

func convertPatternElem(raw *rawPatternElem) (ast.PatternElement, error) {
	first, err := convertNodePattern(raw.First)
	if err != nil {
		return ast.PatternElement{}, err
	}
	elem := ast.PatternElement{Nodes: []ast.NodePattern{first}}
	for _, step := range raw.Chain {
		rel, err := convertRelPattern(step.Rel)
		if err != nil {
			return ast.PatternElement{}, err
		}
		node, err := convertNodePattern(step.Node)
		if err != nil {
			return ast.PatternElement{}, err
		}
		elem.Rels = append(elem.Rels, rel)
		elem.Nodes = append(elem.Nodes, node)
	}
	return elem, nil
}

func convertNodePattern(raw *rawNodePattern) (ast.NodePattern, error) {
	props, err := convertMapLit(raw.Props)
	if err != nil {
		return ast.NodePattern{}, err
	}
	return ast.NodePattern{Variable: raw.Variable, Labels: raw.Labels, Properties: props}, nil
}

func convertRelPattern(raw *rawRelPattern) (ast.RelPattern, error) {
	dir := ast.Undirected
	switch {
	case raw.Left && !raw.Right:
		dir = ast.Incoming
	case raw.Right && !raw.Left:
		dir = ast.Outgoing
	}

	rel := ast.RelPattern{Direction: dir}
	if raw.Detail == nil {
		return rel, nil
	}

	rel.Variable = raw.Detail.Variable
	rel.Types = raw.Detail.Types

	props, err := convertMapLit(raw.Detail.Props)
	if err != nil {
		return ast.RelPattern{}, err
	}
	rel.Properties = props

	vlp, err := convertRange(raw.Detail.Range)
	if err != nil {
		return ast.RelPattern{}, err
	}
	rel.VariableLength = &vlp

	return rel, nil
}

// convertRange resolves the `*`, `*k`, `*min..max`, `*..max`, `*min..`
// forms into a VariableLength. A nil raw.Range means the relationship is
// a single hop, reported as Min==Max==1.
func convertRange(raw *rawRange) (ast.VariableLength, error) {
	if raw == nil {
		return ast.VariableLength{Min: 1, Max: intPtr(1)}, nil
	}
	if raw.Dots == nil {
		// bare "*" (unbounded from 1) or fixed "*k" hops.
		if raw.Min == nil {
			return ast.VariableLength{Min: 1}, nil
		}
		k := *raw.Min
		return ast.VariableLength{Min: k, Max: intPtr(k)}, nil
	}

	min := 1
	if raw.Min != nil {
		min = *raw.Min
	}
	if raw.Dots.Max == nil {
		return ast.VariableLength{Min: min}, nil
	}
	return ast.VariableLength{Min: min, Max: raw.Dots.Max}, nil
}

func intPtr(v int) *int { return &v }

func convertMapLit(raw *rawMapLit) (map[string]ast.Expr, error) {
	if raw == nil || len(raw.Pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]ast.Expr, len(raw.Pairs))
	for _, pair := range raw.Pairs {
		v, err := convertExpr(pair.Value)
		if err != nil {
			return nil, err
		}
		out[pair.Key] = v
	}
	return out, nil
}

// --- expressions --------------------------------------------------------

func convertExpr(raw *rawExpr) (ast.Expr, error) {
	return convertOr(raw.Or)
}

func convertOr(raw *rawOrExpr) (ast.Expr, error) {
	left, err := convertXor(raw.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range raw.Rest {
		right, err := convertXor(r)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func convertXor(raw *rawXorExpr) (ast.Expr, error) {
	left, err := convertAnd(raw.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range raw.Rest {
		right, err := convertAnd(r)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpXor, Left: left, Right: right}
	}
	return left, nil
}

func convertAnd(raw *rawAndExpr) (ast.Expr, error) {
	left, err := convertNot(raw.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range raw.Rest {
		right, err := convertNot(r)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func convertNot(raw *rawNotExpr) (ast.Expr, error) {
	e, err := convertCompare(raw.Cmp)
	if err != nil {
		return nil, err
	}
	for i := 0; i < raw.Nots; i++ {
		e = ast.UnaryExpr{Op: ast.OpNot, Operand: e}
	}
	return e, nil
}

var compareOps = map[string]ast.BinaryOp{
	"=":  ast.OpEq,
	"<>": ast.OpNe,
	"<":  ast.OpLt,
	"<=": ast.OpLe,
	">":  ast.OpGt,
	">=": ast.OpGe,
}

func convertCompare(raw *rawCompareExpr) (ast.Expr, error) {
	left, err := convertAdd(raw.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range raw.Ops {
		switch {
		case rhs.BinOp != nil:
			right, err := convertAdd(rhs.BinOp.Right)
			if err != nil {
				return nil, err
			}
			op, ok := compareOps[rhs.BinOp.Op]
			if !ok {
				return nil, cgerrors.NotSupported("comparison operator " + rhs.BinOp.Op)
			}
			left = ast.BinaryExpr{Op: op, Left: left, Right: right}
		case rhs.InRight != nil:
			right, err := convertAdd(rhs.InRight)
			if err != nil {
				return nil, err
			}
			left = ast.InExpr{Left: left, List: right}
		case rhs.IsNull != nil:
			left = ast.IsNullExpr{Operand: left, Negated: rhs.IsNull.Not}
		}
	}
	return left, nil
}

func convertAdd(raw *rawAddExpr) (ast.Expr, error) {
	left, err := convertMul(raw.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range raw.Ops {
		right, err := convertMul(rhs.Right)
		if err != nil {
			return nil, err
		}
		op := ast.OpAdd
		if rhs.Op == "-" {
			op = ast.OpSub
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func convertMul(raw *rawMulExpr) (ast.Expr, error) {
	left, err := convertPow(raw.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range raw.Ops {
		right, err := convertPow(rhs.Right)
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOp
		switch rhs.Op {
		case "*":
			op = ast.OpMul
		case "/":
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func convertPow(raw *rawPowExpr) (ast.Expr, error) {
	left, err := convertUnary(raw.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range raw.Rest {
		right, err := convertUnary(r)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpPow, Left: left, Right: right}
	}
	return left, nil
}

func convertUnary(raw *rawUnaryExpr) (ast.Expr, error) {
	e, err := convertPostfix(raw.Expr)
	if err != nil {
		return nil, err
	}
	switch raw.Sign {
	case "-":
		return ast.UnaryExpr{Op: ast.OpNeg, Operand: e}, nil
	case "+":
		return ast.UnaryExpr{Op: ast.OpPos, Operand: e}, nil
	default:
		return e, nil
	}
}

func convertPostfix(raw *rawPostfixExpr) (ast.Expr, error) {
	e, err := convertAtom(raw.Atom)
	if err != nil {
		return nil, err
	}
	for _, step := range raw.Ops {
		switch {
		case step.Property != "":
			e = ast.PropertyAccess{Target: e, Property: step.Property}
		case step.Index != nil:
			idx, err := convertExpr(step.Index.Expr)
			if err != nil {
				return nil, err
			}
			e = ast.IndexExpr{Target: e, Index: idx}
		case step.Slice != nil:
			from, err := convertOptExpr(step.Slice.Lo)
			if err != nil {
				return nil, err
			}
			to, err := convertOptExpr(step.Slice.Hi)
			if err != nil {
				return nil, err
			}
			e = ast.SliceExpr{Target: e, From: from, To: to}
		}
	}
	return e, nil
}

func convertAtom(raw *rawAtom) (ast.Expr, error) {
	switch {
	case raw.Case != nil:
		return convertCase(raw.Case)
	case raw.Comp != nil:
		return convertComprehension(raw.Comp)
	case raw.List != nil:
		items := make([]ast.Expr, 0, len(raw.List.Items))
		for _, it := range raw.List.Items {
			e, err := convertExpr(it)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
		return ast.ListExpr{Items: items}, nil
	case raw.Null:
		return ast.LiteralExpr{Value: ast.Literal{Kind: ast.NullLiteral}}, nil
	case raw.True:
		return ast.LiteralExpr{Value: ast.Literal{Kind: ast.BoolLiteral, B: true}}, nil
	case raw.False:
		return ast.LiteralExpr{Value: ast.Literal{Kind: ast.BoolLiteral, B: false}}, nil
	case raw.Float != nil:
		return ast.LiteralExpr{Value: ast.Literal{Kind: ast.FloatLiteral, F: *raw.Float}}, nil
	case raw.Int != nil:
		return ast.LiteralExpr{Value: ast.Literal{Kind: ast.IntLiteral, I: *raw.Int}}, nil
	case raw.Str != nil:
		return ast.LiteralExpr{Value: ast.Literal{Kind: ast.StringLiteral, S: unquote(*raw.Str)}}, nil
	case raw.Param != "":
		return ast.Parameter{Name: strings.TrimPrefix(raw.Param, "$")}, nil
	case raw.Call != nil:
		return convertCall(raw.Call)
	case raw.Var != "":
		return ast.Variable{Name: raw.Var}, nil
	case raw.Paren != nil:
		return convertExpr(raw.Paren)
	default:
		return nil, cgerrors.Syntax(0, 0, "empty expression atom")
	}
}

func convertCall(raw *rawFuncCall) (ast.Expr, error) {
	args := make([]ast.Expr, 0, len(raw.Args))
	for _, a := range raw.Args {
		e, err := convertExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return ast.FunctionCall{Name: raw.Name, Distinct: raw.Distinct, Args: args, Wildcard: raw.Wildcard}, nil
}

func convertComprehension(raw *rawComprehension) (ast.Expr, error) {
	elem, err := convertPatternElem(raw.Node)
	if err != nil {
		return nil, err
	}
	var where ast.Expr
	if raw.Where != nil {
		where, err = convertExpr(raw.Where)
		if err != nil {
			return nil, err
		}
	}
	proj, err := convertExpr(raw.Proj)
	if err != nil {
		return nil, err
	}
	return ast.PatternComprehensionExpr{Element: elem, Where: where, Project: proj}, nil
}

func convertCase(raw *rawCaseExpr) (ast.Expr, error) {
	var test ast.Expr
	var err error
	if raw.Test != nil {
		test, err = convertExpr(raw.Test)
		if err != nil {
			return nil, err
		}
	}

	whens := make([]ast.WhenClause, 0, len(raw.Whens))
	for _, w := range raw.Whens {
		cond, err := convertExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		result, err := convertExpr(w.Result)
		if err != nil {
			return nil, err
		}
		whens = append(whens, ast.WhenClause{Condition: cond, Result: result})
	}

	var def ast.Expr
	if raw.Default != nil {
		def, err = convertExpr(raw.Default)
		if err != nil {
			return nil, err
		}
	}

	return ast.CaseExpr{Test: test, Whens: whens, Default: def}, nil
}

// unquote strips the surrounding quote characters and resolves the
// backslash escapes a Cypher string literal allows.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
