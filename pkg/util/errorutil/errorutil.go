// Package errorutil carries the error envelope shared by services and the HTTP layer.
package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/printshop-service/internal/domain"
)

// Error codes returned to clients.
const (
	CodeValidation  = "VALIDATION_FAILED"
	CodeNotFound    = "NOT_FOUND"
	CodeTimeout     = "REQUEST_TIMEOUT"
	CodeTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeInternal    = "INTERNAL_ERROR"
	internalMessage = "internal server error"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewInternalError hides err behind a fixed message. The cause stays reachable through Unwrap for logging.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    internalMessage,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, domain.ErrNotFound) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, nil)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &DomainError{Code: CodeTimeout, Message: "request timed out", HTTPStatus: http.StatusGatewayTimeout, Err: err}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    internalMessage,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
