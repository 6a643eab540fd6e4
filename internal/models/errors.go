package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. The HTTP status for each is chosen by
// the handler layer.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeUnavailable  = "UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError is a domain failure with a client-facing message. Err, when
// set, is the underlying cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewNotFoundError reports a missing resource, e.g. "Post 7 not found".
func NewNotFoundError(resource string, id any) *AppError {
	return newAppError(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id))
}

func NewValidationError(message string) *AppError {
	return newAppError(CodeValidation, message)
}

func NewUnauthorizedError(message string) *AppError {
	return newAppError(CodeUnauthorized, message)
}

func NewForbiddenError(message string) *AppError {
	return newAppError(CodeForbidden, message)
}

func NewConflictError(message string) *AppError {
	return newAppError(CodeConflict, message)
}

func NewUnavailableError(message string) *AppError {
	return newAppError(CodeUnavailable, message)
}

// NewInternalError hides err behind a generic message.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// RespondWithError writes err with the given status. The cause of an
// internal error is never sent to the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}

	resp := ErrorResponse{Error: appErr.Message, Code: appErr.Code}
	if appErr.Err != nil && appErr.Code != CodeInternal {
		resp.Details = appErr.Err.Error()
	}
	return c.Status(status).JSON(resp)
}
