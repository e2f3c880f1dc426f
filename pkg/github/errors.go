package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
)

// ErrorType categorizes API failures.
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeTransport  ErrorType = "transport"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// APIError is a structured error from a source control operation.
type APIError struct {
	Type     ErrorType
	Message  string
	Cause    error
	Resource string
	// Codes holds the error codes reported by the API, e.g.
	// "already_exists" on a duplicate milestone title.
	Codes []string
}

func (e *APIError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewValidationError returns a validation APIError for one item. It is
// fatal for that item only, never for the run.
func NewValidationError(resource, message string) *APIError {
	return &APIError{Type: ErrorTypeValidation, Resource: resource, Message: message}
}

// WrapAPIError converts a go-github error into an APIError, keyed by
// HTTP status. Errors that are already APIErrors pass through.
func WrapAPIError(err error, resource string) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Resource == "" {
			apiErr.Resource = resource
		}
		return apiErr
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		wrapped := &APIError{
			Message:  ghErr.Message,
			Cause:    err,
			Resource: resource,
		}
		for _, e := range ghErr.Errors {
			if e.Code != "" {
				wrapped.Codes = append(wrapped.Codes, e.Code)
			}
		}
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			wrapped.Type = ErrorTypeNotFound
		case http.StatusConflict:
			wrapped.Type = ErrorTypeConflict
		case http.StatusUnprocessableEntity:
			// Duplicate titles surface as 422 with an error code, the
			// rest is plain validation.
			if len(wrapped.Codes) > 0 {
				wrapped.Type = ErrorTypeConflict
			} else {
				wrapped.Type = ErrorTypeValidation
			}
		default:
			if ghErr.Response.StatusCode >= 500 {
				wrapped.Type = ErrorTypeTransport
			} else {
				wrapped.Type = ErrorTypeUnknown
			}
		}
		return wrapped
	}

	if isNetworkError(err) {
		return &APIError{
			Type:     ErrorTypeTransport,
			Message:  err.Error(),
			Cause:    err,
			Resource: resource,
		}
	}

	return &APIError{
		Type:     ErrorTypeUnknown,
		Message:  err.Error(),
		Cause:    err,
		Resource: resource,
	}
}

// IsNotFound reports whether err is a not-found APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeNotFound
}

// IsBenignAlreadyExists reports whether err is the known idempotent
// duplicate-title conflict: exactly one error code, and that code is
// "already_exists". It shows up when a create races with a concurrent
// run, and is safe to ignore.
func IsBenignAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Type != ErrorTypeConflict {
		return false
	}
	return len(apiErr.Codes) == 1 && apiErr.Codes[0] == "already_exists"
}

func isNetworkError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"dial tcp",
	} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
