package response

import (
	"github.com/labstack/echo/v4"

	apperrors "curator/internal/errors"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationResponse is the body of a 422 response.
type ValidationResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details"`
}

// ValidationMessage is the message of every 422 response.
const ValidationMessage = "Validation error occurred"

// JSON writes data wrapped in a success envelope.
func JSON(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes err as an error envelope. Internal errors never expose their
// cause.
func Error(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Validation writes a 422 with per-field details.
func Validation(c echo.Context, status int, details []FieldError) error {
	return c.JSON(status, ValidationResponse{
		Success: false,
		Message: ValidationMessage,
		Code:    "VALIDATION_ERROR",
		Details: details,
	})
}
