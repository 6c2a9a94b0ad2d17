// Package apperr defines the error taxonomy shared by every request handler:
// unauthorized, forbidden, not-found, validation and upstream failures. The
// REST layer maps each kind onto its HTTP status in a single place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUpstream Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
)

// Error carries a kind, a client-safe message and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Validation(msg string) error   { return &Error{Kind: KindValidation, Msg: msg} }

// Upstream wraps a backend/provider failure. The wrapped detail is logged
// server-side; clients only ever see the generic message.
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindUpstream for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// StatusCode maps an error onto its conventional HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to show callers. Upstream errors
// collapse to a generic message so backend details never leak.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUpstream {
		return e.Msg
	}
	return "internal server error"
}
