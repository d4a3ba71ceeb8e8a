// Package translate wires the whole pipeline together: parse, build,
// analyze, optimize, render, emit. It owns nothing about any single
// stage's internals, only the fixed order they run in and the
// request-scoped state (planctx.Ctx) each translation gets its own
// copy of.
package translate

import (
	"context"

	"github.com/clickgraph/clickgraph/internal/analyzer"
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/emitter"
	"github.com/clickgraph/clickgraph/internal/optimizer"
	"github.com/clickgraph/clickgraph/internal/parser"
	"github.com/clickgraph/clickgraph/internal/planbuild"
	"github.com/clickgraph/clickgraph/internal/planctx"
	"github.com/clickgraph/clickgraph/internal/render"
	"github.com/clickgraph/clickgraph/internal/rp"
	"github.com/clickgraph/clickgraph/internal/schema"
	"github.com/clickgraph/clickgraph/internal/vlp"
)

// Config carries every translation-affecting limit a caller can set.
// It is loaded from YAML via internal/config when not supplied
// programmatically.
type Config struct {
	MaxRecursiveCTEDepth uint32
	// SQLOnly skips SQL execution entirely: ClickGraph never executes
	// SQL itself (that is out of scope per the external interfaces), so
	// this field only carries the caller's setting through a uniform
	// config shape; Translate never looks at it and Result does not
	// report it.
	SQLOnly bool
}

// DefaultConfig matches the zero-value contract §6.1 documents:
// MaxRecursiveCTEDepth of 100, SQLOnly false.
var DefaultConfig = Config{MaxRecursiveCTEDepth: vlp.DefaultMaxRecursiveCTEDepth}

// Result is what one translation produces.
type Result struct {
	SQL string

	// CTECount is the number of common table expressions the emitted
	// statement depends on (including nested VLP/bidirectional-union
	// CTEs), for callers that want to budget ClickHouse's CTE
	// materialization cost.
	CTECount int

	// ParameterizedViewsUsed reports whether any table reference in the
	// statement bound view parameters (tenant_id or a caller-supplied
	// parameter), i.e. whether the statement is tenant-scoped.
	ParameterizedViewsUsed bool
}

// Translate turns Cypher text into ClickHouse SQL against sch. tenantID,
// when non-nil, is bound to any view's tenant_id parameter; params binds
// every other named `$param` a parameterized view or query literal
// references. goCtx is checked once up front for cancellation; the
// pipeline itself is synchronous CPU-bound work with no further
// cancellation points.
func Translate(goCtx context.Context, cypherText string, sch schema.GraphSchema, tenantID *string, params map[string]ast.Literal, cfg Config) (Result, error) {
	select {
	case <-goCtx.Done():
		return Result{}, goCtx.Err()
	default:
	}

	query, err := parser.Parse(cypherText)
	if err != nil {
		return Result{}, err
	}

	plan, err := planbuild.Build(query)
	if err != nil {
		return Result{}, cgerrors.Wrap(err, "planbuild")
	}

	ctx := planctx.New()
	if tenantID != nil {
		ctx.TenantID = *tenantID
	}
	for name, lit := range params {
		ctx.Parameters[name] = literalToAny(lit)
	}

	plan, err = analyzer.Run(plan, ctx, sch)
	if err != nil {
		return Result{}, cgerrors.Wrap(err, "analyzer")
	}

	plan, err = optimizer.Run(plan)
	if err != nil {
		return Result{}, cgerrors.Wrap(err, "optimizer")
	}

	maxDepth := cfg.MaxRecursiveCTEDepth
	if maxDepth == 0 {
		maxDepth = vlp.DefaultMaxRecursiveCTEDepth
	}
	rendered, err := render.Build(plan, ctx, sch, render.Config{MaxRecursiveCTEDepth: maxDepth})
	if err != nil {
		return Result{}, cgerrors.Wrap(err, "render")
	}

	emitParams := make(map[string]any, len(ctx.Parameters))
	for name, v := range ctx.Parameters {
		emitParams[name] = v
	}
	sql, err := emitter.Emit(rendered, emitParams)
	if err != nil {
		return Result{}, cgerrors.Wrap(err, "emit")
	}

	return Result{
		SQL:                    sql,
		CTECount:               len(rendered.Ctes),
		ParameterizedViewsUsed: anyParameterizedView(rendered),
	}, nil
}

// literalToAny unwraps an ast.Literal to the Go value the emitter and
// view-parameter resolver expect (string/bool/int64/float64/[]any),
// mirroring ast.Literal.String()'s own Kind switch.
func literalToAny(l ast.Literal) any {
	switch l.Kind {
	case ast.IntLiteral:
		return l.I
	case ast.FloatLiteral:
		return l.F
	case ast.StringLiteral:
		return l.S
	case ast.BoolLiteral:
		return l.B
	case ast.NullLiteral:
		return nil
	case ast.ListLiteralKind:
		out := make([]any, len(l.List))
		for i, el := range l.List {
			out[i] = literalToAny(el)
		}
		return out
	default:
		return nil
	}
}

// anyParameterizedView walks every FROM/JOIN table reference in plan
// (recursing into every CTE body/union branch) looking for one that
// bound view parameters.
func anyParameterizedView(plan *rp.Plan) bool {
	if plan == nil {
		return false
	}
	if len(plan.From.Ref.Parameters) > 0 {
		return true
	}
	for _, j := range plan.From.Joins {
		if len(j.Ref.Parameters) > 0 {
			return true
		}
	}
	for _, c := range plan.Ctes {
		if anyParameterizedView(c.Body) {
			return true
		}
		for _, u := range c.Union {
			if anyParameterizedView(u) {
				return true
			}
		}
	}
	return false
}
