package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
)

const (
	userIDKey     = "userId"
	guestHeader   = "X-Guest-Id"
	guestPrefix   = "guest:"
	maxGuestIDLen = 128
)

// Identity requires the visitor header on every route except the public
// ones and stores the owner id in context.
func Identity(public ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		for _, p := range public {
			if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
				c.Next()
				return
			}
		}

		guestID := strings.TrimSpace(c.GetHeader(guestHeader))
		if guestID == "" {
			guestID = strings.TrimSpace(c.Query("guest"))
		}
		if guestID == "" || len(guestID) > maxGuestIDLen {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "Missing identity", nil)
			return
		}

		c.Set(userIDKey, guestPrefix+guestID)
		c.Next()
	}
}

// UserIDFromContext fetches the owner id set by Identity.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
