// Package cgerrors implements a typed error taxonomy for the translation
// pipeline. Every error carries a Kind plus a human-readable Context
// describing the operation being performed and the identifiers involved,
// consolidated into one package since every pipeline stage shares the
// same cross-cutting error model rather than each defining its own.
package cgerrors

import "fmt"

// Kind names one error category.
type Kind string

const (
	KindSyntaxError           Kind = "SyntaxError"
	KindNodeTableNotFound     Kind = "NodeTableNotFound"
	KindEdgeTypeNotConfigured Kind = "EdgeTypeNotConfigured"
	KindColumnNotFound        Kind = "ColumnNotFound"
	KindPropertyNotMapped     Kind = "PropertyNotMapped"
	KindUnresolvedAlias       Kind = "UnresolvedAlias"
	KindGroupByMissingKey     Kind = "GroupByMissingKey"
	KindScopeViolation        Kind = "ScopeViolation"
	KindNotSupported          Kind = "NotSupported"
	KindMissingParameter      Kind = "MissingParameter"
	KindInvalidConfig         Kind = "InvalidConfig"
)

// Error is the single structured error type returned across the
// translation pipeline. Passes never panic at the boundary (§7); every
// fallible operation returns one of these, wrapped with context as it
// bubbles up.
type Error struct {
	Kind    Kind
	Context string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Context, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Wrap enriches err with an additional context string as it bubbles up a
// pass boundary, preserving Kind and the original message.
func Wrap(err error, context string) error {
	var ce *Error
	if AsError(err, &ce) {
		wrapped := *ce
		if wrapped.Context == "" {
			wrapped.Context = context
		} else {
			wrapped.Context = context + ": " + wrapped.Context
		}
		return &wrapped
	}
	return &Error{Kind: KindInvalidConfig, Context: context, Message: err.Error(), cause: err}
}

// AsError is a small errors.As shim kept local to avoid an import cycle
// concern in call sites that only ever see *Error.
func AsError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}

func Syntax(line, col int, msg string) error {
	return &Error{Kind: KindSyntaxError, Context: fmt.Sprintf("line %d, col %d", line, col), Message: msg}
}

func NodeTableNotFound(label string) error {
	return &Error{Kind: KindNodeTableNotFound, Message: fmt.Sprintf("no node definition for label %q", label)}
}

func EdgeTypeNotConfigured(edgeType string) error {
	return &Error{Kind: KindEdgeTypeNotConfigured, Message: fmt.Sprintf("no edge definition for type %q", edgeType)}
}

func ColumnNotFound(column, table, context string) error {
	return &Error{Kind: KindColumnNotFound, Context: context, Message: fmt.Sprintf("column %q not found on table %q", column, table)}
}

func PropertyNotMapped(property, label string) error {
	return &Error{Kind: KindPropertyNotMapped, Message: fmt.Sprintf("property %q is not mapped for label %q", property, label)}
}

func UnresolvedAlias(alias string) error {
	return &Error{Kind: KindUnresolvedAlias, Message: fmt.Sprintf("alias %q is not in scope", alias)}
}

func GroupByMissingKey(item string) error {
	return &Error{Kind: KindGroupByMissingKey, Message: fmt.Sprintf("RETURN item %q is not an aggregate and is missing from GROUP BY", item)}
}

func ScopeViolation(alias, scope string) error {
	return &Error{Kind: KindScopeViolation, Message: fmt.Sprintf("alias %q is not visible in scope %q", alias, scope)}
}

func NotSupported(feature string) error {
	return &Error{Kind: KindNotSupported, Message: fmt.Sprintf("%s is not supported", feature)}
}

func MissingParameter(name string) error {
	return &Error{Kind: KindMissingParameter, Message: fmt.Sprintf("missing required parameter %q", name)}
}

func InvalidConfig(field, reason string) error {
	return &Error{Kind: KindInvalidConfig, Message: fmt.Sprintf("field %q: %s", field, reason)}
}
