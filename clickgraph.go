// Package clickgraph translates a Cypher query into ClickHouse SQL: a
// single exported entry point over the internal parser -> logical plan
// -> analyzer -> optimizer -> render plan -> SQL emitter pipeline.
package clickgraph

import (
	"context"

	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/schema"
	"github.com/clickgraph/clickgraph/internal/translate"
)

type (
	Config = translate.Config
	Result = translate.Result

	GraphSchema    = schema.GraphSchema
	NodeDefinition = schema.NodeDefinition
	EdgeDefinition = schema.EdgeDefinition
	Literal        = ast.Literal
)

// DefaultConfig is {MaxRecursiveCTEDepth: 100, SQLOnly: false}.
var DefaultConfig = translate.DefaultConfig

// Translate turns cypherText into a ClickHouse SQL statement against
// sch. tenantID, when non-nil, binds a parameterized view's tenant_id;
// params binds every other named `$param` reference.
func Translate(ctx context.Context, cypherText string, sch GraphSchema, tenantID *string, params map[string]Literal, cfg Config) (Result, error) {
	return translate.Translate(ctx, cypherText, sch, tenantID, params, cfg)
}
