package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ghErrorResponse(status string, code int, message string, codes ...string) *github.ErrorResponse {
	resp := &github.ErrorResponse{
		Response: &http.Response{StatusCode: code, Status: status},
		Message:  message,
	}
	for _, c := range codes {
		resp.Errors = append(resp.Errors, github.Error{Code: c})
	}
	return resp
}

func TestWrapAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		wantCodes []string
	}{
		{
			name:     "404 becomes not found",
			err:      ghErrorResponse("404 Not Found", http.StatusNotFound, "Not Found"),
			wantType: ErrorTypeNotFound,
		},
		{
			name:     "409 becomes conflict",
			err:      ghErrorResponse("409 Conflict", http.StatusConflict, "Conflict"),
			wantType: ErrorTypeConflict,
		},
		{
			name:      "422 with a code becomes conflict",
			err:       ghErrorResponse("422 Unprocessable Entity", http.StatusUnprocessableEntity, "Validation Failed", "already_exists"),
			wantType:  ErrorTypeConflict,
			wantCodes: []string{"already_exists"},
		},
		{
			name:     "422 without codes becomes validation",
			err:      ghErrorResponse("422 Unprocessable Entity", http.StatusUnprocessableEntity, "Validation Failed"),
			wantType: ErrorTypeValidation,
		},
		{
			name:     "500 becomes transport",
			err:      ghErrorResponse("500 Internal Server Error", http.StatusInternalServerError, "boom"),
			wantType: ErrorTypeTransport,
		},
		{
			name:     "network error becomes transport",
			err:      errors.New("dial tcp 10.0.0.1:443: connection refused"),
			wantType: ErrorTypeTransport,
		},
		{
			name:     "anything else is unknown",
			err:      errors.New("something odd"),
			wantType: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapAPIError(tt.err, "milestone \"Iteration 1\"")
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.wantType, wrapped.Type)
			assert.Equal(t, tt.wantCodes, wrapped.Codes)
			assert.Equal(t, "milestone \"Iteration 1\"", wrapped.Resource)
		})
	}
}

func TestWrapAPIError_PassThrough(t *testing.T) {
	orig := NewValidationError("", "bad due date")

	wrapped := WrapAPIError(fmt.Errorf("planning: %w", orig), "milestone \"Iteration 1\"")

	assert.Same(t, orig, wrapped)
	assert.Equal(t, "milestone \"Iteration 1\"", wrapped.Resource)
}

func TestWrapAPIError_Nil(t *testing.T) {
	assert.Nil(t, WrapAPIError(nil, "whatever"))
}

func TestIsNotFound(t *testing.T) {
	notFound := WrapAPIError(ghErrorResponse("404 Not Found", http.StatusNotFound, "Not Found"), "repo")

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(fmt.Errorf("getting repo: %w", notFound)))
	assert.False(t, IsNotFound(errors.New("not found-ish")))
	assert.False(t, IsNotFound(nil))
}

func TestIsBenignAlreadyExists(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "single already_exists code",
			err:  &APIError{Type: ErrorTypeConflict, Codes: []string{"already_exists"}},
			want: true,
		},
		{
			name: "extra codes make it real",
			err:  &APIError{Type: ErrorTypeConflict, Codes: []string{"already_exists", "invalid"}},
			want: false,
		},
		{
			name: "different code",
			err:  &APIError{Type: ErrorTypeConflict, Codes: []string{"missing_field"}},
			want: false,
		},
		{
			name: "wrong type",
			err:  &APIError{Type: ErrorTypeValidation, Codes: []string{"already_exists"}},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("already exists"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBenignAlreadyExists(tt.err))
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	withResource := &APIError{Type: ErrorTypeNotFound, Resource: "repo cs101-team-a", Message: "Not Found"}
	assert.Equal(t, "not_found error for repo cs101-team-a: Not Found", withResource.Error())

	bare := &APIError{Type: ErrorTypeTransport, Message: "connection reset"}
	assert.Equal(t, "transport error: connection reset", bare.Error())
}
