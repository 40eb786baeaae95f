package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"painter/internal/http/middleware"
	"painter/internal/service"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// errorPayload defines the standardized error response body.
// Status is always "error" so clients can branch on a single field.
type errorPayload struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "EMPTY_CONTENT", "WRITE_FAILED")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Status:    statusError,
		Error:     message,
		Code:      code,
		RequestID: requestIDFromCtx(c),
	})
}

// writeStoreError maps an upload failure onto its HTTP response.
func writeStoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyContent):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_CONTENT", "file is empty")
	case errors.Is(err, service.ErrDirectoryUnavailable):
		return writeError(c, fiber.StatusInternalServerError, "DIRECTORY_UNAVAILABLE", "cannot create upload directory")
	default:
		return writeError(c, fiber.StatusInternalServerError, "WRITE_FAILED", "upload failed")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Recovered panics arrive here as plain errors and become INTERNAL_ERROR.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "file exceeds the maximum upload size")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
