// Package apperr defines the error taxonomy shared by the auth service, the
// repositories and the HTTP layer. Every failure that reaches a handler is
// either one of these or is treated as a storage fault.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an Error.
type Kind uint8

const (
	KindStorage Kind = iota
	KindValidation
	KindConflict // validation failure caused by existing state (duplicate username, dependent rows)
	KindAuth
	KindForbidden
	KindNotFound
)

// Reason narrows a KindAuth error.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonCredentials
	ReasonMissing
	ReasonInvalid
	ReasonExpired
)

// Error is the concrete error type carried across layers.  Message is safe to
// show to callers; Err holds the underlying cause and is never rendered.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind and reason, so callers can compare against
// the exported sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == ReasonNone || t.Reason == e.Reason
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStorage    = &Error{Kind: KindStorage}
)

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// NotFound reports that resource is absent or not owned by the caller.  The
// two cases are deliberately indistinguishable.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Auth builds an authentication failure.  Messages are fixed per reason and
// never say which check failed.
func Auth(reason Reason) *Error {
	msg := "invalid or expired token"
	switch reason {
	case ReasonCredentials:
		msg = "invalid credentials"
	case ReasonMissing:
		msg = "missing bearer token"
	}
	return &Error{Kind: KindAuth, Reason: reason, Message: msg}
}

// Storage wraps an engine-level failure.  op is kept for logs only.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: op, Err: err}
}

// KindOf returns the kind of err, treating foreign errors as storage faults.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// HTTPStatus maps err to a response status.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		if e.Reason == ReasonInvalid || e.Reason == ReasonExpired {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text that may be shown to a caller.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindStorage {
		return "internal server error"
	}
	return e.Message
}
