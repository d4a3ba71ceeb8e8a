package parser

// rawExpr is the entry point of the expression grammar: the standard
// precedence-climbing-by-struct-layering idiom (OR binds loosest, postfix
// property/index access binds tightest). Each layer wraps the next
// tighter one, giving a full operator-precedence ladder from one level
// of alternation per struct.
type rawExpr struct {
	Or *rawOrExpr `parser:"@@"`
}

type rawOrExpr struct {
	Left  *rawXorExpr   `parser:"@@"`
	Rest  []*rawXorExpr `parser:"( \"OR\" @@ )*"`
}

type rawXorExpr struct {
	Left *rawAndExpr   `parser:"@@"`
	Rest []*rawAndExpr `parser:"( \"XOR\" @@ )*"`
}

type rawAndExpr struct {
	Left *rawNotExpr   `parser:"@@"`
	Rest []*rawNotExpr `parser:"( \"AND\" @@ )*"`
}

type rawNotExpr struct {
	Nots int            `parser:"@\"NOT\"*"`
	Cmp  *rawCompareExpr `parser:"@@"`
}

type rawCompareExpr struct {
	Left *rawAddExpr      `parser:"@@"`
	Ops  []*rawCompareRHS `parser:"@@*"`
}

// rawCompareRHS is one suffix applied to a comparison chain: a binary
// operator with its right operand, an `IN <list-expr>` test, or an
// `IS [NOT] NULL` test. Exactly one of the three is ever set.
type rawCompareRHS struct {
	BinOp   *rawBinCompare `parser:"(  @@"`
	InRight *rawAddExpr    `parser:" | \"IN\" @@"`
	IsNull  *rawIsNull     `parser:" | @@ )"`
}

type rawBinCompare struct {
	Op    string      `parser:"@( \"=\" | \"<>\" | \"<=\" | \">=\" | \"<\" | \">\" )"`
	Right *rawAddExpr `parser:"@@"`
}

type rawIsNull struct {
	_   string `parser:"\"IS\""`
	Not bool   `parser:"@\"NOT\"?"`
	_   string `parser:"\"NULL\""`
}

type rawAddExpr struct {
	Left *rawMulExpr      `parser:"@@"`
	Ops  []*rawAddOpRHS   `parser:"@@*"`
}

type rawAddOpRHS struct {
	Op    string    `parser:"@( \"+\" | \"-\" )"`
	Right *rawMulExpr `parser:"@@"`
}

type rawMulExpr struct {
	Left *rawPowExpr    `parser:"@@"`
	Ops  []*rawMulOpRHS `parser:"@@*"`
}

type rawMulOpRHS struct {
	Op    string    `parser:"@( \"*\" | \"/\" | \"%\" )"`
	Right *rawPowExpr `parser:"@@"`
}

type rawPowExpr struct {
	Left  *rawUnaryExpr   `parser:"@@"`
	Rest  []*rawUnaryExpr `parser:"( \"^\" @@ )*"`
}

type rawUnaryExpr struct {
	Sign string         `parser:"@( \"-\" | \"+\" )?"`
	Expr *rawPostfixExpr `parser:"@@"`
}

type rawPostfixExpr struct {
	Atom *rawAtom          `parser:"@@"`
	Ops  []*rawPostfixStep `parser:"@@*"`
}

// rawPostfixStep is one `.prop`, `[index]`, or `[lo..hi]` suffix. Index is
// tried before Slice so that `[1]` commits to an index and `[1..5]`/`[..5]`
// backtrack into the slice alternative once the index form fails to find
// the closing `]` right after its expression.
type rawPostfixStep struct {
	Property string      `parser:"(  \".\" @Ident"`
	Index    *rawIndex   `parser:" | @@"`
	Slice    *rawSlice   `parser:" | @@ )"`
}

type rawIndex struct {
	_     string   `parser:"\"[\""`
	Expr  *rawExpr `parser:"@@"`
	_     string   `parser:"\"]\""`
}

type rawSlice struct {
	_  string   `parser:"\"[\""`
	Lo *rawExpr `parser:"@@?"`
	_  string   `parser:"\"..\""`
	Hi *rawExpr `parser:"@@?"`
	_  string   `parser:"\"]\""`
}

// rawAtom is the innermost expression layer.
type rawAtom struct {
	Case     *rawCaseExpr    `parser:"(  @@"`
	Comp     *rawComprehension `parser:" | @@"`
	List     *rawListLit     `parser:" | @@"`
	Null     bool            `parser:" | @\"NULL\""`
	True     bool            `parser:" | @\"TRUE\""`
	False    bool            `parser:" | @\"FALSE\""`
	Float    *float64        `parser:" | @Float"`
	Int      *int64          `parser:" | @Int"`
	Str      *string         `parser:" | @String"`
	Param    string          `parser:" | @Parameter"`
	Call     *rawFuncCall    `parser:" | @@"`
	Var      string          `parser:" | @Ident"`
	Paren    *rawExpr        `parser:" | \"(\" @@ \")\" )"`
}

type rawFuncCall struct {
	Name     string     `parser:"@Ident"`
	_        string     `parser:"\"(\""`
	Distinct bool       `parser:"@\"DISTINCT\"?"`
	Wildcard bool       `parser:"( @\"*\""`
	Args     []*rawExpr `parser:" | ( @@ ( \",\" @@ )* )? )"`
	_        string     `parser:"\")\""`
}

type rawListLit struct {
	_     string     `parser:"\"[\""`
	Items []*rawExpr `parser:"( @@ ( \",\" @@ )* )?"`
	_     string     `parser:"\"]\""`
}

type rawComprehension struct {
	_     string          `parser:"\"[\""`
	Node  *rawPatternElem `parser:"@@"`
	Where *rawExpr        `parser:"( \"WHERE\" @@ )?"`
	_     string          `parser:"\"|\""`
	Proj  *rawExpr        `parser:"@@"`
	_     string          `parser:"\"]\""`
}

type rawCaseExpr struct {
	_       string        `parser:"\"CASE\""`
	Test    *rawExpr      `parser:"@@?"`
	Whens   []*rawWhen    `parser:"( \"WHEN\" @@ )+"`
	Default *rawExpr      `parser:"( \"ELSE\" @@ )?"`
	_       string        `parser:"\"END\""`
}

type rawWhen struct {
	Cond   *rawExpr `parser:"@@"`
	_      string   `parser:"\"THEN\""`
	Result *rawExpr `parser:"@@"`
}
