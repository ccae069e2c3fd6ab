package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Recovery turns a panic inside a handler into a 500 and logs it with the
// session context the handler had tagged so far.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("http.panic", map[string]any{
				"request_id":  RequestIDFromContext(c),
				"method":      c.Request.Method,
				"route":       c.FullPath(),
				"session_id":  c.GetString(SessionIDKey),
				"template_id": c.GetString(TemplateIDKey),
				"operation":   c.GetString(OperationKey),
				"error":       rec,
				"stack":       string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
