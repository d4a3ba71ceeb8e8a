// Package telemetry logs structured events around a translation: one
// entry per request with the fields an operator needs to correlate a
// slow or failing translation back to the Cypher text that caused it.
// Grounded on the teacher pack's logrus audit-trail shape (one
// *logrus.Entry, built once with a fixed "system" field, fed per-event
// logrus.Fields) rather than ad hoc fmt.Printf calls.
package telemetry

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
)

// Recorder logs translation and HTTP-request events.
type Recorder interface {
	Translation(cypherText string, tenantID string, d time.Duration, cteCount int, err error)
	Request(method, path string, status int, d time.Duration)
}

const (
	translationMessage = "translation"
	requestMessage     = "request"
)

// NewRecorder returns a Recorder that logs to l, tagged "system":
// "clickgraph".
func NewRecorder(l *logrus.Logger) Recorder {
	return &logRecorder{log: l.WithField("system", "clickgraph")}
}

type logRecorder struct {
	log *logrus.Entry
}

// Translation logs one Translate call. cypherText is truncated to keep
// log lines bounded; the full text belongs in a trace, not a log line.
func (r *logRecorder) Translation(cypherText string, tenantID string, d time.Duration, cteCount int, err error) {
	fields := logrus.Fields{
		"action":    "translate",
		"cypher":    truncate(cypherText, 200),
		"duration":  d,
		"cte_count": cteCount,
		"success":   true,
	}
	if tenantID != "" {
		fields["tenant_id"] = tenantID
	}
	if err != nil {
		fields["success"] = false
		fields["err"] = err.Error()
		fields["error_kind"] = errorKind(err)
		r.log.WithFields(fields).Warn(translationMessage)
		return
	}
	r.log.WithFields(fields).Info(translationMessage)
}

// Request logs one HTTP request/response round trip.
func (r *logRecorder) Request(method, path string, status int, d time.Duration) {
	r.log.WithFields(logrus.Fields{
		"action":   "request",
		"method":   method,
		"path":     path,
		"status":   status,
		"duration": d,
	}).Info(requestMessage)
}

func errorKind(err error) string {
	var ce *cgerrors.Error
	if cgerrors.AsError(err, &ce) {
		return string(ce.Kind)
	}
	return "Unknown"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
