// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/auth-api/internal/errors"
)

// APIResponse is the response envelope used by every endpoint and middleware
// rejection: {success, message, data?, retryAfter?, timestamp}.
type APIResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
	Timestamp  string `json:"timestamp"`
}

func newResponse(success bool, message string, data any) APIResponse {
	return APIResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Success writes a 200 response with the standard envelope.
func Success(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, newResponse(true, message, data))
}

// BadRequest writes a 400 response for malformed input.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, newResponse(false, message, nil))
}

// Unauthorized writes a 401 rejection with the given message.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, newResponse(false, message, nil))
}

// Forbidden writes a 403 rejection with the given message.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, newResponse(false, message, nil))
}

// TooManyRequests writes a 429 rejection carrying a Retry-After header and a
// retry-after duration (in seconds) in the body.
func TooManyRequests(c *gin.Context, message string, retryAfterSeconds int) {
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSeconds))
	resp := newResponse(false, message, nil)
	resp.RetryAfter = retryAfterSeconds
	c.JSON(http.StatusTooManyRequests, resp)
}

// InternalError writes a 500 response without exposing internal details.
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, newResponse(false, message, nil))
}

// HandleErrorGin maps domain errors to HTTP status codes and writes the
// standard envelope. Use it on paths where the error kind alone determines the
// response; middleware with per-kind messages writes rejections directly.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var message string

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found"

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Authentication is required"

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		message = "Operation not permitted"

	case apperrors.Is(err, apperrors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		message = "Too many requests"

	case apperrors.Is(err, apperrors.ErrUnavailable):
		statusCode = http.StatusInternalServerError
		message = "A required backing service is unavailable"

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		message = "An internal error occurred"
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, newResponse(false, message, nil))
}
