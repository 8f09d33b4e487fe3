// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Data        interface{}            `json:"data,omitempty"`
	Error       string                 `json:"error,omitempty"`
	FieldErrors validation.FieldErrors `json:"fieldErrors,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	// Abort before writing so later handlers do not append to the body.
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		resp.Error = err.Error()
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	c.JSON(code, resp)
}

// ValidationFailed sends 422 with per-field messages.
func ValidationFailed(c *gin.Context, fields validation.FieldErrors, data ...interface{}) {
	c.Abort()
	resp := Response{
		Success:     false,
		Message:     "validation failed",
		FieldErrors: fields,
	}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	c.JSON(http.StatusUnprocessableEntity, resp)
}

// FromError maps service errors onto HTTP status codes.
func FromError(c *gin.Context, err error, data ...interface{}) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		ValidationFailed(c, fields, data...)
	case xerrors.Is(err, xerrors.ErrCaseNotFound), xerrors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, "not found", err, data...)
	case xerrors.Is(err, xerrors.ErrWrongFlow), xerrors.Is(err, xerrors.ErrInvalidAction):
		Error(c, http.StatusConflict, "action not allowed", err, data...)
	case xerrors.Is(err, xerrors.ErrInvalidInput), xerrors.Is(err, xerrors.ErrBadRequest):
		Error(c, http.StatusBadRequest, "invalid request", err, data...)
	case xerrors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "too many attempts", err, data...)
	case xerrors.Is(err, xerrors.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "unauthorized", err, data...)
	case xerrors.Is(err, xerrors.ErrBackendUnavailable):
		Error(c, http.StatusBadGateway, "backend unavailable", err, data...)
	default:
		Error(c, http.StatusInternalServerError, "internal server error", err, data...)
	}
}

// BadRequest sends a 400 Bad Request response for malformed input.
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}
