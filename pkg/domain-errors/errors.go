// Package domainerrors defines coded domain errors shared across features.
//
// Services return these so handlers can translate outcomes into HTTP responses
// without inspecting error strings. Infrastructure facts (missing rows, expired
// resources) live in pkg/platform/sentinel; this package is for domain-level
// results the caller is expected to branch on.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of domain error.
type Code string

const (
	// CodeBadRequest covers malformed or unparseable input.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput covers well-formed input that fails validation.
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound covers lookups for entities that do not exist.
	CodeNotFound Code = "not_found"
	// CodeNotStarted covers operations that require a running optimization
	// loop when none has been started.
	CodeNotStarted Code = "loop_not_started"
	// CodeAlreadyRunning covers start requests while a loop is active.
	CodeAlreadyRunning Code = "loop_already_running"
	// CodeInvalidState covers operations that are not valid for the current
	// lifecycle state (for example completing an iteration when none is active).
	CodeInvalidState Code = "invalid_state"
	// CodeUnavailable covers dependencies that are temporarily unreachable.
	CodeUnavailable Code = "unavailable"
	// CodeInternal covers unexpected failures the caller cannot act on.
	CodeInternal Code = "internal"
)

// DomainError carries a code and a human-readable message. It optionally wraps
// an underlying cause for logs; the cause is never rendered to clients.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

// New builds a DomainError with the given code and message.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Wrap builds a DomainError that records an underlying cause.
func Wrap(code Code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, cause: cause}
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.cause }

// Is reports whether err is a DomainError with the given code.
func Is(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in this package.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err. Errors that did not
// originate in this package get a generic message; their details stay in logs.
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "unexpected error"
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotStarted:
		return http.StatusPreconditionFailed
	case CodeAlreadyRunning:
		return http.StatusConflict
	case CodeInvalidState:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
