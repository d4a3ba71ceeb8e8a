// Package exprutil provides shared traversal and rewriting helpers over
// ast.Expr trees, used by the analyzer, optimizer, and render builder so
// each pass doesn't reimplement the same recursive descent.
package exprutil

import "github.com/clickgraph/clickgraph/internal/ast"

// Walk calls visit on every node in e's tree, including e itself,
// pre-order.
func Walk(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	for _, child := range Children(e) {
		Walk(child, visit)
	}
}

// Children returns e's immediate sub-expressions.
func Children(e ast.Expr) []ast.Expr {
	switch n := e.(type) {
	case ast.PropertyAccess:
		return []ast.Expr{n.Target}
	case ast.ListExpr:
		return n.Items
	case ast.FunctionCall:
		return n.Args
	case ast.CaseExpr:
		var out []ast.Expr
		if n.Test != nil {
			out = append(out, n.Test)
		}
		for _, w := range n.Whens {
			if w.Condition != nil {
				out = append(out, w.Condition)
			}
			out = append(out, w.Result)
		}
		if n.Default != nil {
			out = append(out, n.Default)
		}
		return out
	case ast.BinaryExpr:
		return []ast.Expr{n.Left, n.Right}
	case ast.UnaryExpr:
		return []ast.Expr{n.Operand}
	case ast.InExpr:
		return []ast.Expr{n.Left, n.List}
	case ast.IsNullExpr:
		return []ast.Expr{n.Operand}
	case ast.IndexExpr:
		return []ast.Expr{n.Target, n.Index}
	case ast.SliceExpr:
		var out []ast.Expr
		out = append(out, n.Target)
		if n.From != nil {
			out = append(out, n.From)
		}
		if n.To != nil {
			out = append(out, n.To)
		}
		return out
	case ast.PatternComprehensionExpr:
		var out []ast.Expr
		if n.Where != nil {
			out = append(out, n.Where)
		}
		out = append(out, n.Project)
		return out
	default:
		return nil
	}
}

// PropertyAccesses collects every `alias.prop` reference in e.
func PropertyAccesses(e ast.Expr) []ast.PropertyAccess {
	var out []ast.PropertyAccess
	Walk(e, func(n ast.Expr) {
		if pa, ok := n.(ast.PropertyAccess); ok {
			if _, isVar := pa.Target.(ast.Variable); isVar {
				out = append(out, pa)
			}
		}
	})
	return out
}

// Variables collects every bare variable reference in e (excluding the
// target half of a PropertyAccess, which PropertyAccesses already
// reports against).
func Variables(e ast.Expr) []ast.Variable {
	var out []ast.Variable
	var walkSkippingPropertyTargets func(ast.Expr)
	walkSkippingPropertyTargets = func(n ast.Expr) {
		if n == nil {
			return
		}
		if pa, ok := n.(ast.PropertyAccess); ok {
			if _, isVar := pa.Target.(ast.Variable); isVar {
				return
			}
			walkSkippingPropertyTargets(pa.Target)
			return
		}
		if v, ok := n.(ast.Variable); ok {
			out = append(out, v)
			return
		}
		for _, c := range Children(n) {
			walkSkippingPropertyTargets(c)
		}
	}
	walkSkippingPropertyTargets(e)
	return out
}

// IsAggregateCall reports whether name (case-insensitive) is a
// recognized aggregate function.
func IsAggregateCall(name string) bool {
	switch lower(name) {
	case "count", "sum", "avg", "min", "max", "collect":
		return true
	}
	return false
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// ContainsAggregate reports whether e contains an aggregate function
// call anywhere in its tree.
func ContainsAggregate(e ast.Expr) bool {
	found := false
	Walk(e, func(n ast.Expr) {
		if fc, ok := n.(ast.FunctionCall); ok && IsAggregateCall(fc.Name) {
			found = true
		}
	})
	return found
}

// Rewrite applies fn bottom-up over e's tree, replacing each node with
// fn's result. fn may return its input unchanged.
func Rewrite(e ast.Expr, fn func(ast.Expr) ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case ast.PropertyAccess:
		n.Target = Rewrite(n.Target, fn)
		return fn(n)
	case ast.ListExpr:
		items := make([]ast.Expr, len(n.Items))
		for i, it := range n.Items {
			items[i] = Rewrite(it, fn)
		}
		n.Items = items
		return fn(n)
	case ast.FunctionCall:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Rewrite(a, fn)
		}
		n.Args = args
		return fn(n)
	case ast.BinaryExpr:
		n.Left = Rewrite(n.Left, fn)
		n.Right = Rewrite(n.Right, fn)
		return fn(n)
	case ast.UnaryExpr:
		n.Operand = Rewrite(n.Operand, fn)
		return fn(n)
	case ast.InExpr:
		n.Left = Rewrite(n.Left, fn)
		n.List = Rewrite(n.List, fn)
		return fn(n)
	case ast.IsNullExpr:
		n.Operand = Rewrite(n.Operand, fn)
		return fn(n)
	case ast.IndexExpr:
		n.Target = Rewrite(n.Target, fn)
		n.Index = Rewrite(n.Index, fn)
		return fn(n)
	case ast.SliceExpr:
		n.Target = Rewrite(n.Target, fn)
		if n.From != nil {
			n.From = Rewrite(n.From, fn)
		}
		if n.To != nil {
			n.To = Rewrite(n.To, fn)
		}
		return fn(n)
	case ast.CaseExpr:
		if n.Test != nil {
			n.Test = Rewrite(n.Test, fn)
		}
		whens := make([]ast.WhenClause, len(n.Whens))
		for i, w := range n.Whens {
			if w.Condition != nil {
				w.Condition = Rewrite(w.Condition, fn)
			}
			w.Result = Rewrite(w.Result, fn)
			whens[i] = w
		}
		n.Whens = whens
		if n.Default != nil {
			n.Default = Rewrite(n.Default, fn)
		}
		return fn(n)
	default:
		return fn(e)
	}
}

// SplitConjuncts flattens a chain of AND-combined predicates into its
// individual conjuncts.
func SplitConjuncts(e ast.Expr) []ast.Expr {
	if e == nil {
		return nil
	}
	if be, ok := e.(ast.BinaryExpr); ok && be.Op == ast.OpAnd {
		return append(SplitConjuncts(be.Left), SplitConjuncts(be.Right)...)
	}
	return []ast.Expr{e}
}

// JoinConjuncts rebuilds a single AND-combined expression from parts.
// Returns nil for an empty slice.
func JoinConjuncts(parts []ast.Expr) ast.Expr {
	if len(parts) == 0 {
		return nil
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out = ast.BinaryExpr{Op: ast.OpAnd, Left: out, Right: p}
	}
	return out
}
