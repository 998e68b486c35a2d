// Package apperr holds the error kinds the client distinguishes when
// deciding how to surface a failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a request that failed in transport or came back non-2xx.
// StatusCode is 0 for transport failures.
type NetworkError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError blocks a submission before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ErrNotFoundLocal marks a missing in-memory item or view target. It points
// at a client state bug rather than a user error.
var ErrNotFoundLocal = errors.New("not found locally")

func NotFoundLocal(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFoundLocal)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.StatusCode
	}
	return 0
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
