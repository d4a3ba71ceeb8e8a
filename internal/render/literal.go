package render

import (
	"strconv"
	"strings"

	"github.com/clickgraph/clickgraph/internal/ast"
)

func formatLiteral(l ast.Literal) string {
	switch l.Kind {
	case ast.IntLiteral:
		return strconv.FormatInt(l.I, 10)
	case ast.FloatLiteral:
		return strconv.FormatFloat(l.F, 'g', -1, 64)
	case ast.StringLiteral:
		return quoteStringLiteral(l.S)
	case ast.BoolLiteral:
		if l.B {
			return "true"
		}
		return "false"
	case ast.NullLiteral:
		return "NULL"
	case ast.ListLiteralKind:
		parts := make([]string, len(l.List))
		for i, el := range l.List {
			parts[i] = formatLiteral(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "NULL"
	}
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
