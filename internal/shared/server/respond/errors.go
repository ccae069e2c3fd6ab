package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// Error codes shared by every handler.
const (
	CodeNotFound         = "not_found"
	CodeValidation       = "validation_error"
	CodeIndexOutOfRange  = "index_out_of_range"
	CodePrintUnavailable = "print_unavailable"
	CodeNothingToExport  = "nothing_to_export"
	CodeRateLimited      = "rate_limited"
	CodeUnauthorized     = "unauthorized"
	CodeTooLarge         = "payload_too_large"
	CodeInternal         = "internal_error"
)

// ErrorBody is the "error" member of every failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Mapping sends errors matching any of Match with Status and Code.
// An empty Message exposes err.Error() to the client.
type Mapping struct {
	Match   []error
	Status  int
	Code    string
	Message string
}

// Map builds a Mapping that echoes the error text.
func Map(status int, code string, match ...error) Mapping {
	return Mapping{Match: match, Status: status, Code: code}
}

// Hide is Map with a fixed message, for errors whose text must not leak.
func Hide(status int, code, message string, match ...error) Mapping {
	return Mapping{Match: match, Status: status, Code: code, Message: message}
}

func (m Mapping) matches(err error) bool {
	for _, target := range m.Match {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// FromError writes the first mapping matching err. Unmatched errors become a
// 500 carrying fallback; their text is only logged.
func FromError(c *gin.Context, err error, fallback string, mappings ...Mapping) {
	for _, m := range mappings {
		if !m.matches(err) {
			continue
		}
		message := m.Message
		if message == "" {
			message = err.Error()
		}
		write(c, m.Status, m.Code, message, nil, err)
		return
	}
	write(c, http.StatusInternalServerError, CodeInternal, fallback, nil, err)
}

// Error sends an error response that has no underlying Go error.
func Error(c *gin.Context, status int, code, message string, details any) {
	write(c, status, code, message, details, nil)
}

func write(c *gin.Context, status int, code, message string, details any, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"route":      c.FullPath(),
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if cause != nil && status >= http.StatusInternalServerError {
		fields["error"] = cause
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if sessionID := c.GetString("sessionId"); sessionID != "" {
		fields["session_id"] = sessionID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.rejected", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}
