package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gubarz/studymd/internal/store"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type APIError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Status maps the error type to an HTTP status code
func (e *APIError) Status() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func NewValidationError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

func NewNotFoundError(resource string, id any) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewInternalError(err error) *APIError {
	return &APIError{
		Type:    ErrorTypeInternal,
		Message: "Internal server error",
		Details: err.Error(),
	}
}

// FromStore translates store sentinels into API errors
func FromStore(err error, resource string, id any) *APIError {
	var apiErr *APIError
	switch {
	case stderrors.As(err, &apiErr):
		return apiErr
	case stderrors.Is(err, store.ErrNotFound):
		return NewNotFoundError(resource, id)
	case stderrors.Is(err, store.ErrInvalid):
		return NewValidationError(err.Error())
	default:
		return NewInternalError(err)
	}
}
