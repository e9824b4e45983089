package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies application errors for the HTTP layer.
type ErrorKind string

const (
	KindValidation       ErrorKind = "VALIDATION_FAILED"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindUnauthorized     ErrorKind = "UNAUTHORIZED"
	KindRateLimited      ErrorKind = "RATE_LIMITED"
	KindStoreUnavailable ErrorKind = "STORE_UNAVAILABLE"
	KindInternal         ErrorKind = "INTERNAL_ERROR"
)

// AppError standardizes errors returned by services.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(message string, details map[string]string) error {
	return &AppError{Kind: KindValidation, Message: message, Details: details}
}

func NewNotFound(resource string) error {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewUnauthorized(message string) error {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewRateLimited(message string) error {
	return &AppError{Kind: KindRateLimited, Message: message}
}

// NewStoreUnavailable wraps a persistence failure. The caller is expected to re-request.
func NewStoreUnavailable(op string, err error) error {
	return &AppError{Kind: KindStoreUnavailable, Message: "failed to " + op, Err: err}
}

func NewInternalError(err error) error {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// AsAppError returns err as an *AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
