// Command clickgraph-server exposes Translate over HTTP: POST
// /translate with a Cypher query body, a ClickHouse SQL statement (or a
// structured error) back.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clickgraph/clickgraph"
	"github.com/clickgraph/clickgraph/internal/ast"
	"github.com/clickgraph/clickgraph/internal/catalogyaml"
	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/config"
	"github.com/clickgraph/clickgraph/internal/telemetry"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": err.Error()}
	var ce *cgerrors.Error
	if cgerrors.AsError(err, &ce) {
		body["kind"] = string(ce.Kind)
	}
	writeJSON(w, status, body)
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code a handler wrote so the
// logging middleware can report it after ServeHTTP returns.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(rec telemetry.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		rec.Request(r.Method, r.URL.Path, sr.status, time.Since(start))
	})
}

type translateRequest struct {
	Cypher     string         `json:"cypher"`
	TenantID   *string        `json:"tenant_id,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type translateResponse struct {
	SQL                    string `json:"sql"`
	CTECount               int    `json:"cte_count"`
	ParameterizedViewsUsed bool   `json:"parameterized_views_used"`
}

func translateHandler(sch clickgraph.GraphSchema, cfg clickgraph.Config, rec telemetry.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, cgerrors.NotSupported("method "+r.Method))
			return
		}

		var body translateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}
		if body.Cypher == "" {
			writeError(w, http.StatusBadRequest, cgerrors.InvalidConfig("cypher", "must not be empty"))
			return
		}

		params := make(map[string]ast.Literal, len(body.Parameters))
		for name, v := range body.Parameters {
			params[name] = jsonValueToLiteral(v)
		}

		tenant := ""
		if body.TenantID != nil {
			tenant = *body.TenantID
		}

		start := time.Now()
		res, err := clickgraph.Translate(r.Context(), body.Cypher, sch, body.TenantID, params, cfg)
		rec.Translation(body.Cypher, tenant, time.Since(start), res.CTECount, err)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}

		writeJSON(w, http.StatusOK, translateResponse{
			SQL:                    res.SQL,
			CTECount:               res.CTECount,
			ParameterizedViewsUsed: res.ParameterizedViewsUsed,
		})
	}
}

// jsonValueToLiteral converts a decoded JSON value (string/float64/bool/
// nil/[]any, per encoding/json's default unmarshal target) into the
// ast.Literal shape Translate's params map takes.
func jsonValueToLiteral(v any) ast.Literal {
	switch x := v.(type) {
	case string:
		return ast.Literal{Kind: ast.StringLiteral, S: x}
	case float64:
		return ast.Literal{Kind: ast.FloatLiteral, F: x}
	case bool:
		return ast.Literal{Kind: ast.BoolLiteral, B: x}
	case nil:
		return ast.Literal{Kind: ast.NullLiteral}
	case []any:
		list := make([]ast.Literal, len(x))
		for i, el := range x {
			list[i] = jsonValueToLiteral(el)
		}
		return ast.Literal{Kind: ast.ListLiteralKind, List: list}
	default:
		return ast.Literal{Kind: ast.NullLiteral}
	}
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	catalogPath := flag.String("catalog", "", "path to the YAML schema catalog")
	configPath := flag.String("config", "", "path to the YAML server config (optional)")
	flag.Parse()

	if *catalogPath == "" {
		fmt.Fprintln(os.Stderr, "clickgraph-server: -catalog is required")
		os.Exit(2)
	}

	sch, err := catalogyaml.Load(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clickgraph-server: %v\n", err)
		os.Exit(1)
	}

	cfg := clickgraph.DefaultConfig
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "clickgraph-server: %v\n", err)
			os.Exit(1)
		}
		cfg = c.Translate.ToTranslateConfig()
	}

	logger := logrus.New()
	rec := telemetry.NewRecorder(logger)

	mux := http.NewServeMux()
	mux.Handle("/translate", translateHandler(sch, cfg, rec))

	addr := fmt.Sprintf(":%d", *port)
	logger.Infof("clickgraph-server listening on %s", addr)
	if err := http.ListenAndServe(addr, corsMiddleware(loggingMiddleware(rec, mux))); err != nil {
		logger.Errorf("server error: %v", err)
	}
}
