// Package emitter turns a Render Plan into ClickHouse SQL text (§4.7):
// deterministic, side-effect-free string construction with no schema or
// alias knowledge of its own — every column and table reference it sees
// has already been resolved by the render builder.
package emitter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/rp"
)

// lambdaBearingFuncs names ClickHouse functions whose higher-order
// lambda argument (`x -> ...`) has no representation anywhere in the
// AST/render plan; a call naming one of these can never be emitted
// correctly, so it is rejected rather than silently dropping the
// lambda.
var lambdaBearingFuncs = map[string]bool{
	"arrayMap":    true,
	"arrayFilter": true,
	"arrayFold":   true,
	"arrayExists": true,
	"arrayAll":    true,
	"arraySort":   true,
}

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quoteIdent backtick-quotes name only when it is not already a valid
// bare SQL identifier.
func quoteIdent(name string) string {
	if plainIdent.MatchString(name) {
		return name
	}
	var b strings.Builder
	b.WriteByte('`')
	for _, r := range name {
		if r == '`' {
			b.WriteString("\\`")
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('`')
	return b.String()
}

// quoteResultAlias double-quotes a result-envelope column name
// unconditionally (§6.5): the client-facing shape `"alias.prop"` always
// carries a literal `.`, which a bare identifier can never contain.
func quoteResultAlias(name string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range name {
		if r == '"' {
			b.WriteString(`\"`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Emit renders plan as one SQL statement. params supplies the values
// bound to any rp.Param the plan carries (the `parameters` map handed
// to the top-level translation call); a name plan references but
// params does not carry raises MissingParameter.
func Emit(plan *rp.Plan, params map[string]any) (string, error) {
	e := &emitter{params: params}
	var b strings.Builder
	if err := e.writePlan(&b, plan, true); err != nil {
		return "", err
	}
	return b.String(), nil
}

type emitter struct {
	params map[string]any
}

func (e *emitter) writePlan(b *strings.Builder, p *rp.Plan, outer bool) error {
	if len(p.Ctes) > 0 {
		if err := e.writeCteClause(b, p.Ctes); err != nil {
			return err
		}
		b.WriteByte(' ')
	}

	b.WriteString("SELECT ")
	if p.Select.Distinct {
		b.WriteString("DISTINCT ")
	}
	if err := e.writeSelectItems(b, p.Select.Items, outer); err != nil {
		return err
	}

	b.WriteString(" FROM ")
	if err := e.writeFrom(b, p.From); err != nil {
		return err
	}

	if p.Filters != nil {
		b.WriteString(" WHERE ")
		if err := e.writeExpr(b, p.Filters); err != nil {
			return err
		}
	}

	if len(p.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, g := range p.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := e.writeExpr(b, g); err != nil {
				return err
			}
		}
	}

	if p.Having != nil {
		b.WriteString(" HAVING ")
		if err := e.writeExpr(b, p.Having); err != nil {
			return err
		}
	}

	if len(p.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, k := range p.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := e.writeExpr(b, k.Expr); err != nil {
				return err
			}
			if k.Desc {
				b.WriteString(" DESC")
			}
		}
	}

	if p.Limit != nil {
		b.WriteString(" LIMIT ")
		if err := e.writeExpr(b, p.Limit); err != nil {
			return err
		}
	}
	if p.Skip != nil {
		b.WriteString(" OFFSET ")
		if err := e.writeExpr(b, p.Skip); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) writeCteClause(b *strings.Builder, ctes []rp.Cte) error {
	recursive := false
	for _, c := range ctes {
		if c.IsRecursive {
			recursive = true
			break
		}
	}
	if recursive {
		b.WriteString("WITH RECURSIVE ")
	} else {
		b.WriteString("WITH ")
	}
	for i, c := range ctes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c.Name))
		b.WriteString(" AS (")
		if err := e.writeCteBody(b, c); err != nil {
			return err
		}
		b.WriteByte(')')
	}
	return nil
}

func (e *emitter) writeCteBody(b *strings.Builder, c rp.Cte) error {
	if c.Body != nil {
		return e.writePlan(b, c.Body, false)
	}
	for i, branch := range c.Union {
		if i > 0 {
			b.WriteString(" UNION ALL ")
		}
		if err := e.writePlan(b, branch, false); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) writeSelectItems(b *strings.Builder, items []rp.SelectItem, outer bool) error {
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := e.writeExpr(b, it.Expr); err != nil {
			return err
		}
		if it.Alias != "" {
			b.WriteString(" AS ")
			if outer {
				b.WriteString(quoteResultAlias(it.Alias))
			} else {
				b.WriteString(quoteIdent(it.Alias))
			}
		}
	}
	return nil
}

func (e *emitter) writeFrom(b *strings.Builder, f rp.FromClause) error {
	if err := e.writeTableRef(b, f.Ref); err != nil {
		return err
	}
	for _, j := range f.Joins {
		b.WriteByte(' ')
		if err := e.writeJoin(b, j); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) writeJoin(b *strings.Builder, j rp.Join) error {
	switch j.Kind {
	case rp.ArrayJoinKind, rp.LeftArrayJoinKind:
		if j.Kind == rp.LeftArrayJoinKind {
			b.WriteString("LEFT ARRAY JOIN ")
		} else {
			b.WriteString("ARRAY JOIN ")
		}
		if err := e.writeExpr(b, j.ArrayExpr); err != nil {
			return err
		}
		b.WriteString(" AS ")
		b.WriteString(quoteIdent(j.Ref.Alias))
		return nil
	case rp.LeftJoin:
		b.WriteString("LEFT JOIN ")
	default:
		b.WriteString("INNER JOIN ")
	}
	if err := e.writeTableRef(b, j.Ref); err != nil {
		return err
	}
	b.WriteString(" ON ")
	return e.writeExpr(b, j.On)
}

// quoteQualifiedIdent quotes a possibly `db.table`-qualified name
// segment by segment (system.one, the ClickHouse single-row table used
// for an unsatisfiable pattern, must not be backtick-quoted whole —
// that would turn the literal dot into part of one identifier).
func quoteQualifiedIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quoteIdent(p)
	}
	return strings.Join(parts, ".")
}

func (e *emitter) writeTableRef(b *strings.Builder, ref rp.TableRef) error {
	b.WriteString(quoteQualifiedIdent(ref.Name))
	if len(ref.Parameters) > 0 {
		b.WriteByte('(')
		first := true
		for _, p := range sortedParamNames(ref.Parameters) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(p)
			b.WriteString(" = ")
			b.WriteString(quoteStringLiteral(ref.Parameters[p]))
		}
		b.WriteByte(')')
	}
	if ref.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(quoteIdent(ref.Alias))
	}
	return nil
}

// sortedParamNames orders a TableRef's view parameters for deterministic
// emission; the declared view_parameters order isn't carried this far,
// so lexical order is the next best stable choice.
func sortedParamNames(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func quoteStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func (e *emitter) writeExpr(b *strings.Builder, expr rp.Expr) error {
	switch n := expr.(type) {
	case nil:
		b.WriteString("NULL")
		return nil
	case rp.ColumnRef:
		b.WriteString(quoteIdent(n.Alias))
		b.WriteByte('.')
		b.WriteString(quoteIdent(n.Column))
		return nil
	case rp.Raw:
		b.WriteString(n.SQL)
		return nil
	case rp.Literal:
		b.WriteString(n.SQL)
		return nil
	case rp.Param:
		return e.writeParam(b, n)
	case rp.Binary:
		return e.writeBinary(b, n)
	case rp.Unary:
		return e.writeUnary(b, n)
	case rp.IsNull:
		b.WriteByte('(')
		if err := e.writeExpr(b, n.Operand); err != nil {
			return err
		}
		b.WriteString(")")
		if n.Negated {
			b.WriteString(" IS NOT NULL")
		} else {
			b.WriteString(" IS NULL")
		}
		return nil
	case rp.Call:
		return e.writeCall(b, n)
	case rp.Subquery:
		b.WriteByte('(')
		if err := e.writePlan(b, n.Plan, false); err != nil {
			return err
		}
		b.WriteByte(')')
		return nil
	default:
		return cgerrors.NotSupported("render expression form cannot be emitted to SQL")
	}
}

func (e *emitter) writeParam(b *strings.Builder, p rp.Param) error {
	v, ok := e.params[p.Name]
	if !ok {
		return cgerrors.MissingParameter(p.Name)
	}
	b.WriteString(formatParamValue(v))
	return nil
}

func formatParamValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteStringLiteral(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, el := range x {
			parts[i] = formatParamValue(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return quoteStringLiteral(fmt.Sprintf("%v", x))
	}
}

var binaryOpSQL = map[rp.BinaryOp]string{
	rp.OpAnd:    "AND",
	rp.OpOr:     "OR",
	rp.OpEq:     "=",
	rp.OpNe:     "!=",
	rp.OpLt:     "<",
	rp.OpLe:     "<=",
	rp.OpGt:     ">",
	rp.OpGe:     ">=",
	rp.OpAdd:    "+",
	rp.OpSub:    "-",
	rp.OpMul:    "*",
	rp.OpDiv:    "/",
	rp.OpMod:    "%",
	rp.OpConcat: "||",
}

func (e *emitter) writeBinary(b *strings.Builder, n rp.Binary) error {
	op, ok := binaryOpSQL[n.Op]
	if !ok {
		return cgerrors.NotSupported("binary operator cannot be emitted to SQL")
	}
	b.WriteByte('(')
	if err := e.writeExpr(b, n.Left); err != nil {
		return err
	}
	b.WriteByte(' ')
	b.WriteString(op)
	b.WriteByte(' ')
	if err := e.writeExpr(b, n.Right); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}

func (e *emitter) writeUnary(b *strings.Builder, n rp.Unary) error {
	switch n.Op {
	case rp.OpNot:
		b.WriteString("NOT (")
	case rp.OpNeg:
		b.WriteString("-(")
	default:
		return cgerrors.NotSupported("unary operator cannot be emitted to SQL")
	}
	if err := e.writeExpr(b, n.Operand); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}

// writeCall emits a scalar/aggregate function call. The Cypher list
// literal (translated to Call{Name: "array"}) renders as ClickHouse
// bracket-list syntax rather than the array(...) function form, since
// that is the more literal reading of a Cypher list; every other call
// name is passed through verbatim (arrayElement, has,
// arrayStringConcat, length, anyLast, the aggregate names, ...) per the
// array-operations dialect rule (§4.7) — except the handful of
// lambda-bearing functions, which the AST has no way to carry a lambda
// argument for in the first place.
func (e *emitter) writeCall(b *strings.Builder, n rp.Call) error {
	if lambdaBearingFuncs[n.Name] {
		return cgerrors.NotSupported(fmt.Sprintf("lambda-bearing function %q", n.Name))
	}
	if n.Name == "array" {
		b.WriteByte('[')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := e.writeExpr(b, a); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	}
	b.WriteString(n.Name)
	b.WriteByte('(')
	if n.Distinct {
		b.WriteString("DISTINCT ")
	}
	for i, a := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := e.writeExpr(b, a); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}
