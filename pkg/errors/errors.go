package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldErrors maps form field names to human-readable messages. An empty
// map means the submission is valid.
type FieldErrors map[string]string

// Set records a message for a field, keeping the first message when one is
// already present.
func (f FieldErrors) Set(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// ClearStale drops a previously recorded error for a field. Duplicate-name
// errors are scoped to the parent selection they were computed under, so a
// parent change clears them optimistically; the next submission revalidates.
func (f FieldErrors) ClearStale(field string) {
	delete(f, field)
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Fields  FieldErrors `json:"fields,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors covering the gateway's failure taxonomy. Validation
// failures stay local and never reach the upstream API; authentication
// failures are a distinct kind so the host application can force re-login;
// upstream errors are the transient kind and are never retried automatically.
var (
	ErrValidation     = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrAuthentication = New("AUTHENTICATION_FAILED", http.StatusUnauthorized, "authentication failed")
	ErrAuthorization  = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict       = New("CONFLICT", http.StatusConflict, "conflict")
	ErrUpstream       = New("UPSTREAM_ERROR", http.StatusBadGateway, "upstream request failed")
	ErrCacheMiss      = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// Validation builds a VALIDATION_ERROR carrying a field→message map.
func Validation(fields FieldErrors) *Error {
	return &Error{
		Code:    ErrValidation.Code,
		Status:  ErrValidation.Status,
		Message: ErrValidation.Message,
		Fields:  fields,
	}
}

// FromUpstreamStatus converts an upstream HTTP status into the gateway's
// error taxonomy. Anything not explicitly mapped is treated as transient.
func FromUpstreamStatus(status int, detail string) *Error {
	base := ErrUpstream
	switch status {
	case http.StatusUnauthorized:
		base = ErrAuthentication
	case http.StatusForbidden:
		base = ErrAuthorization
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusConflict:
		base = ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		base = ErrValidation
	}
	if detail == "" {
		detail = base.Message
	}
	return &Error{Code: base.Code, Status: base.Status, Message: detail}
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err belongs to the same taxonomy entry as target,
// comparing codes rather than pointers so wrapped and cloned errors match.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}
