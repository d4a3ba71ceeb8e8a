// Package parser turns Cypher query text into an internal/ast.Query: a
// comment-stripping pass, a participle-generated grammar producing a raw
// parse tree, and a conversion pass that resolves that tree into the
// closed ast.Expr/ast.Clause sum types.
package parser

import (
	"github.com/alecthomas/participle/v2"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	clexer "github.com/clickgraph/clickgraph/internal/lexer"
)

// Parse compiles Cypher query text into an ast.Query. Syntax errors are
// returned as a cgerrors.Error with KindSyntaxError carrying the offending
// line and column.
func Parse(text string) (ast.Query, error) {
	stripped := clexer.StripComments(text)

	raw, err := cypherParser.ParseString("", stripped)
	if err != nil {
		return ast.Query{}, syntaxError(err)
	}

	return convertQuery(raw)
}

func syntaxError(err error) error {
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		return cgerrors.Syntax(pos.Line, pos.Column, perr.Message())
	}
	return cgerrors.Syntax(0, 0, err.Error())
}
