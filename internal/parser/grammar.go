package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// cypherLexer tokenizes the comment-stripped Cypher text. Rule order
// matters: participle's simple lexer tries rules in the order given and
// uses the first one that matches at the current position, so Keyword
// must precede Ident and Float must precede Int.
var cypherLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(MATCH|OPTIONAL|WHERE|WITH|RETURN|UNWIND|AS|UNION|ALL|DISTINCT|ORDER|BY|ASC|DESC|SKIP|LIMIT|AND|OR|XOR|NOT|IN|IS|NULL|TRUE|FALSE|CASE|WHEN|THEN|ELSE|END|shortestPath|allShortestPaths)\b`},
	{Name: "Float", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Parameter", Pattern: `\$[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "String", Pattern: `'([^'\\]|\\.)*'|"([^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: "[a-zA-Z_][a-zA-Z0-9_]*|`[^`]*`"},
	{Name: "Punct", Pattern: `<>|<=|>=|\.\.|->|<-|[(){}\[\],.:|+\-*/%^=<>]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// cypherParser is the participle grammar: Cypher text -> rawQuery. Operator
// precedence is encoded the standard way (struct-per-level, each wrapping
// the next-tighter level), scaled up to Cypher's full expression grammar.
var cypherParser = participle.MustBuild[rawQuery](
	participle.Lexer(cypherLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// --- raw (grammar-tagged) parse tree -------------------------------------

type rawQuery struct {
	First *rawSinglePartQuery `parser:"@@"`
	Rest  []*rawUnionPart     `parser:"@@*"`
}

type rawUnionPart struct {
	All   bool                `parser:"\"UNION\" @\"ALL\"?"`
	Query *rawSinglePartQuery `parser:"@@"`
}

type rawSinglePartQuery struct {
	Clauses []*rawClause `parser:"@@+"`
}

type rawClause struct {
	Match  *rawMatchClause  `parser:"(  @@"`
	Unwind *rawUnwindClause `parser:" | @@"`
	With   *rawWithClause   `parser:" | @@"`
	Return *rawReturnClause `parser:" | @@ )"`
}

type rawMatchClause struct {
	Optional bool              `parser:"@\"OPTIONAL\"?"`
	_        string            `parser:"\"MATCH\""`
	Pattern  []*rawPatternPart `parser:"@@ ( \",\" @@ )*"`
	Where    *rawExpr          `parser:"( \"WHERE\" @@ )?"`
}

type rawUnwindClause struct {
	_        string   `parser:"\"UNWIND\""`
	Expr     *rawExpr `parser:"@@"`
	_        string   `parser:"\"AS\""`
	Variable string   `parser:"@Ident"`
}

type rawWithClause struct {
	_        string         `parser:"\"WITH\""`
	Distinct bool           `parser:"@\"DISTINCT\"?"`
	Items    []*rawProjItem `parser:"@@ ( \",\" @@ )*"`
	Where    *rawExpr       `parser:"( \"WHERE\" @@ )?"`
	OrderBy  []*rawSortItem `parser:"( \"ORDER\" \"BY\" @@ ( \",\" @@ )* )?"`
	Skip     *rawExpr       `parser:"( \"SKIP\" @@ )?"`
	Limit    *rawExpr       `parser:"( \"LIMIT\" @@ )?"`
}

type rawReturnClause struct {
	_        string         `parser:"\"RETURN\""`
	Distinct bool           `parser:"@\"DISTINCT\"?"`
	Items    []*rawProjItem `parser:"@@ ( \",\" @@ )*"`
	OrderBy  []*rawSortItem `parser:"( \"ORDER\" \"BY\" @@ ( \",\" @@ )* )?"`
	Skip     *rawExpr       `parser:"( \"SKIP\" @@ )?"`
	Limit    *rawExpr       `parser:"( \"LIMIT\" @@ )?"`
}

type rawProjItem struct {
	Wildcard bool     `parser:"( @\"*\""`
	Expr     *rawExpr `parser:" | @@ )"`
	Alias    string   `parser:"( \"AS\" @Ident )?"`
}

type rawSortItem struct {
	Expr       *rawExpr `parser:"@@"`
	Descending bool     `parser:"( @\"DESC\" | \"ASC\" )?"`
}

// --- patterns -------------------------------------------------------------

type rawPatternPart struct {
	PathVariable string          `parser:"( @Ident \"=\" )?"`
	Shortest     *rawShortestFn  `parser:"( @@"`
	Plain        *rawPatternElem `parser:" | @@ )"`
}

type rawShortestFn struct {
	All  bool            `parser:"( \"shortestPath\" | @\"allShortestPaths\" )"`
	_    string          `parser:"\"(\""`
	Elem *rawPatternElem `parser:"@@"`
	_    string          `parser:"\")\""`
}

type rawPatternElem struct {
	First *rawNodePattern `parser:"@@"`
	Chain []*rawChainStep `parser:"@@*"`
}

type rawChainStep struct {
	Rel  *rawRelPattern  `parser:"@@"`
	Node *rawNodePattern `parser:"@@"`
}

type rawNodePattern struct {
	_        string     `parser:"\"(\""`
	Variable string     `parser:"@Ident?"`
	Labels   []string   `parser:"( \":\" @Ident ( \"|\" @Ident )* )?"`
	Props    *rawMapLit `parser:"@@?"`
	_        string     `parser:"\")\""`
}

type rawRelPattern struct {
	Left   bool          `parser:"@\"<-\"?"`
	_      string        `parser:"\"-\""`
	Detail *rawRelDetail `parser:"@@?"`
	_      string        `parser:"\"-\""`
	Right  bool          `parser:"@\"->\"?"`
}

type rawRelDetail struct {
	_        string     `parser:"\"[\""`
	Variable string     `parser:"@Ident?"`
	Types    []string   `parser:"( \":\" @Ident ( \"|\" @Ident )* )?"`
	Range    *rawRange  `parser:"@@?"`
	Props    *rawMapLit `parser:"@@?"`
	_        string     `parser:"\"]\""`
}

type rawRange struct {
	_    string   `parser:"\"*\""`
	Min  *int     `parser:"@Int?"`
	Dots *rawDots `parser:"@@?"`
}

type rawDots struct {
	_   string `parser:"\"..\""`
	Max *int   `parser:"@Int?"`
}

type rawMapLit struct {
	_     string        `parser:"\"{\""`
	Pairs []*rawMapPair `parser:"( @@ ( \",\" @@ )* )?"`
	_     string        `parser:"\"}\""`
}

type rawMapPair struct {
	Key   string   `parser:"@Ident"`
	_     string   `parser:"\":\""`
	Value *rawExpr `parser:"@@"`
}
