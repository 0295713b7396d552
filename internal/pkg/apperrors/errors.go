// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error independently of the transport layer.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindBadRequest   Kind = "bad_request"
	KindForbidden    Kind = "forbidden"
)

// Error is a domain error with a kind and optional entity context.
type Error struct {
	Kind    Kind
	Message string
	Entity  string // e.g. "product", "order"
	ID      any    // offending entity id, if known
	Err     error  // wrapped cause
}

func (e *Error) Error() string {
	if e.Entity != "" && e.ID != nil {
		return fmt.Sprintf("%s %v: %s", e.Entity, e.ID, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a transport status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// NotFound reports that an entity is absent or not owned by the caller.
func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: entity + " not found"}
}

// Conflict reports a uniqueness violation (duplicate SKU, slug, order number).
func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

// InvalidState reports an operation invalid for the entity's lifecycle stage.
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// InvalidStatef is InvalidState with formatting.
func InvalidStatef(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// BadRequest reports malformed or contradictory input.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Forbidden reports an authenticated but unauthorized access.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// KindOf extracts the kind from an error chain; empty if it is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusOf returns the HTTP status for err, defaulting to 500 for unknown errors.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
