// Package errors defines the application error model. Services return an
// *AppError carrying the HTTP status and a stable machine-readable code;
// the HTTP layer serializes it into the error envelope without inspecting
// the error further.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by repositories and infrastructure. Services
// translate them into AppErrors at the point where the missing entity is
// known.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidToken  = errors.New("invalid token")
)

// Stable error codes clients branch on. Entity- and action-scoped codes are
// derived in the constructors below; only the standalone ones live here.
const (
	CodeUnauthenticated      = "unauthenticated"
	CodeInvalidCredentials   = "unauthenticated.invalid_credentials"
	CodeSessionExpired       = "unauthenticated.session_expired"
	CodeValidation           = "validation_error"
	CodeFailedParse          = "failed_parse"
	CodeDuplicateCredentials = "duplicate_credentials"
	CodeInternal             = "internal_server_error"
)

// AppError is an error with a client-facing message, an HTTP status and a
// stable code. Err keeps the underlying cause for logs; it never reaches
// the client.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewValidation reports a request body that parsed but failed validation.
func NewValidation(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusUnprocessableEntity, Code: CodeValidation}
}

// NewFailedParse reports a request body that could not be parsed at all.
func NewFailedParse(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusUnprocessableEntity, Code: CodeFailedParse}
}

// NewUnauthenticated reports a missing or unusable authentication. An empty
// code falls back to the generic unauthenticated code.
func NewUnauthenticated(message, code string) *AppError {
	if code == "" {
		code = CodeUnauthenticated
	}
	return &AppError{Message: message, StatusCode: http.StatusUnauthorized, Code: code}
}

// NewPermission reports an authenticated caller lacking rights for the given
// action, e.g. "shopping_list.item:edit".
func NewPermission(message, action string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusForbidden, Code: "forbidden_action." + action}
}

// NewNotFoundEntity reports a missing entity of the given kind. It wraps
// ErrNotFound so errors.Is keeps working across the service boundary.
func NewNotFoundEntity(message, entity string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message, StatusCode: http.StatusNotFound, Code: "not_found." + entity}
}

// NewBadRequest reports a request that is well-formed but not executable in
// the current state, with a caller-chosen code.
func NewBadRequest(message, code string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusBadRequest, Code: code}
}

// NewInternal wraps an unexpected error into a generic 500 response.
func NewInternal(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "Unexpected error occurred on the server. Please, try again later.",
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
	}
}

// AsAppError converts any error into an *AppError. Errors that are not an
// AppError already are degraded to an internal server error, so unexpected
// failures never leak their details to the client.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}
