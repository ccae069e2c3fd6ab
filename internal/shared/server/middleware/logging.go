package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// Context keys handlers set to enrich the request log line.
const (
	SessionIDKey  = "sessionId"
	TemplateIDKey = "templateId"
	OperationKey  = "operation"
)

// Logging writes one line per request. Server errors are logged at error
// level; preflights and the paths in quiet (health checks, scrapes) are skipped.
func Logging(quiet ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		skip[p] = true
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"session_id":  c.GetString(SessionIDKey),
			"template_id": c.GetString(TemplateIDKey),
			"operation":   c.GetString(OperationKey),
			"bytes":       c.Writer.Size(),
		}
		if status >= http.StatusInternalServerError {
			telemetry.Error("http.request", fields)
			return
		}
		telemetry.Info("http.request", fields)
	}
}
