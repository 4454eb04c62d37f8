// Package apierrors defines the typed errors surfaced to API clients.
// Services return these for expected failures; everything else is wrapped
// and mapped to a generic internal error at the handler boundary.
package apierrors

import (
	"fmt"
	"net/http"
)

// Error codes surfaced in JSON responses.
const (
	CodeInvalidEmail     = "invalid_email"
	CodeWeakPassword     = "weak_password"
	CodeEmailInUse       = "email_in_use"
	CodeAccountNotFound  = "account_not_found"
	CodeWrongCredentials = "wrong_credentials"
	CodeNotFound         = "not_found"
	CodeDeviceNotSet     = "device_not_configured"
	CodeDeviceFailure    = "device_unreachable"
	CodeUnauthenticated  = "unauthenticated"
	CodeInvalidArgument  = "invalid_argument"
)

// APIError is a user-facing error with a stable code and an HTTP status.
type APIError struct {
	Code       string
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewErrInvalidEmail(email string) *APIError {
	return &APIError{
		Code:       CodeInvalidEmail,
		HTTPStatus: http.StatusBadRequest,
		Message:    fmt.Sprintf("invalid email format: %s", email),
	}
}

func NewErrWeakPassword() *APIError {
	return &APIError{
		Code:       CodeWeakPassword,
		HTTPStatus: http.StatusBadRequest,
		Message:    "password must be at least 6 characters long and contain an uppercase letter, a digit and a special character",
	}
}

func NewErrEmailInUse(email string) *APIError {
	return &APIError{
		Code:       CodeEmailInUse,
		HTTPStatus: http.StatusConflict,
		Message:    fmt.Sprintf("email already in use: %s", email),
	}
}

func NewErrAccountNotFound(email string) *APIError {
	return &APIError{
		Code:       CodeAccountNotFound,
		HTTPStatus: http.StatusNotFound,
		Message:    fmt.Sprintf("account not found: %s", email),
	}
}

func NewErrWrongCredentials() *APIError {
	return &APIError{
		Code:       CodeWrongCredentials,
		HTTPStatus: http.StatusUnauthorized,
		Message:    "wrong email or password",
	}
}

func NewErrDeviceNotConfigured() *APIError {
	return &APIError{
		Code:       CodeDeviceNotSet,
		HTTPStatus: http.StatusConflict,
		Message:    "no device address configured for this account",
	}
}

func NewErrDeviceUnreachable() *APIError {
	return &APIError{
		Code:       CodeDeviceFailure,
		HTTPStatus: http.StatusBadGateway,
		Message:    "device did not respond",
	}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		Code:       CodeUnauthenticated,
		HTTPStatus: http.StatusUnauthorized,
		Message:    "missing authorization token",
	}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		Code:       CodeUnauthenticated,
		HTTPStatus: http.StatusUnauthorized,
		Message:    "invalid authorization token",
	}
}

func NewErrInvalidArgument(msg string) *APIError {
	return &APIError{
		Code:       CodeInvalidArgument,
		HTTPStatus: http.StatusBadRequest,
		Message:    msg,
	}
}
