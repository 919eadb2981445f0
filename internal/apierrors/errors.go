// Package apierrors defines the client-facing error taxonomy. Every
// non-2xx response carries one of these codes in the error envelope.
package apierrors

import (
	"fmt"
	"net/http"
)

// Wire codes.
const (
	CodeUserExists          = "user_exists"
	CodeEmailExists         = "email_exists"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeNotFound            = "not_found"
	CodeNotFoundOrForbidden = "not_found_or_forbidden"
	CodeValidationError     = "validation_error"
	CodeUnauthenticated     = "unauthenticated"
	CodeInternalError       = "internal_error"
	CodeHTTPError           = "http_error"
)

// APIError is an error with an HTTP status and a stable wire code.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewErrUserExists reports a registration with a taken username.
func NewErrUserExists(username string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeUserExists,
		Message: fmt.Sprintf("username %q is already registered", username),
	}
}

// NewErrEmailExists reports a registration with a taken email.
func NewErrEmailExists(email string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeEmailExists,
		Message: fmt.Sprintf("email %q is already registered", email),
	}
}

// NewErrInvalidCredentials reports a failed login. Unknown username and
// wrong password are indistinguishable.
func NewErrInvalidCredentials() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeInvalidCredentials,
		Message: "incorrect username or password",
	}
}

// NewErrFeatureNotFound reports an absent feature.
func NewErrFeatureNotFound() *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: "feature not found",
	}
}

// NewErrVoteNotFound reports that the caller holds no vote on a feature.
func NewErrVoteNotFound() *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: "vote not found",
	}
}

// NewErrFeatureNotFoundOrForbidden reports a mutation on an absent feature
// or a feature owned by someone else; callers cannot tell which.
func NewErrFeatureNotFoundOrForbidden() *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFoundOrForbidden,
		Message: "feature not found or you don't have permission to modify it",
	}
}

// NewErrInvalidVoteValue reports a vote weight outside {1, -1}.
func NewErrInvalidVoteValue() *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidationError,
		Message: "vote value must be 1 (upvote) or -1 (downvote)",
	}
}

// NewErrValidation reports a malformed or incomplete request.
func NewErrValidation(message string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidationError,
		Message: message,
	}
}

// NewErrInternalServerError wraps an unexpected failure. The cause never
// reaches the client.
func NewErrInternalServerError() *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "internal server error",
	}
}

// NewErrMissingAuthorizationToken reports a protected request without a
// bearer token.
func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthenticated,
		Message: "missing authorization token",
	}
}

// NewErrInvalidAuthorizationToken reports an unparseable, expired or
// revoked token.
func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthenticated,
		Message: "invalid authorization token",
	}
}
