// Package errors provides the typed error kinds shared by the eKYC services
// and the helpers used to classify them at the HTTP boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that need to branch on it.
type Kind string

const (
	KindInternal     Kind = "internal"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindInvalidState Kind = "invalid_state"
	KindConflict     Kind = "conflict"
)

// Error is a classified error carrying a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message so package sentinels work
// with errors.Is after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newf(KindUnauthorized, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// Common errors
var (
	ErrApplicationNotFound    = NotFound("ekyc application not found")
	ErrDocumentNotFound       = NotFound("document not found")
	ErrMediaNotFound          = NotFound("media not found")
	ErrUserNotFound           = NotFound("user not found")
	ErrNotificationNotFound   = NotFound("notification not found")
	ErrReviewerNotFound       = NotFound("reviewer not found")
	ErrNotApplicationOwner    = Unauthorized("application does not belong to user")
	ErrNotNotificationOwner   = Unauthorized("notification does not belong to user")
	ErrAdminRequired          = Unauthorized("admin role required")
	ErrConcurrentModification = Conflict("application was modified concurrently")
	ErrDuplicateValue         = Validation("value already registered")
)

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the classified message, or a generic one for internal errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }

// HTTPStatus maps an error kind to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindInvalidState, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is and As are re-exported so callers need a single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }
