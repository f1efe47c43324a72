// Package response provides standardized HTTP response builders for the airfare matrix API.
// It centralizes response formatting to ensure consistency across all endpoints.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorDetail is the body of every failed request.
type ErrorDetail struct {
	// Success is always false for errors
	Success bool `json:"success"`

	// Code is a machine-readable error code
	Code string `json:"code"`

	// Error is a human-readable error message
	Error string `json:"error"`

	// Details contains field-specific error details (for validation errors)
	Details map[string]string `json:"details,omitempty"`
}

// Error codes used in API responses.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeValidationError = "validation_error"
	CodeNotFound        = "not_found"
	CodeTimeout         = "timeout"
	CodeInternalError   = "internal_error"
)

// Error messages used in API responses.
const (
	MsgInvalidRequestBody = "Failed to parse request body"
	MsgValidationFailed   = "Request validation failed"
	MsgSearchNotFound     = "Search not found"
	MsgTimeout            = "Request timed out"
	MsgRequestCancelled   = "Request was cancelled"
	MsgHistoryFailed      = "Search completed but could not be saved to history"
	MsgInternalError      = "An unexpected error occurred"
)

// Failure builds an error body.
func Failure(code, message string, details map[string]string) *ErrorDetail {
	return &ErrorDetail{
		Success: false,
		Code:    code,
		Error:   message,
		Details: details,
	}
}

// OK writes a 200 OK response with the given data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}
