package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/exports"
	"resume-builder/internal/sessions"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shell"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupExport  = "EXPORT"
)

// RouterDeps holds the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	SessionHandler *sessions.Handler
	ExportHandler  *exports.Handler
	ShellHandler   *shell.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging("/metrics", "/api/v1/health"),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	limit := rateLimit(deps.Config)
	api := r.Group("/api/v1", middleware.Identity("/api/v1/health", "/api/v1/templates"), limit)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.SessionHandler != nil {
		deps.SessionHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}
	if deps.ShellHandler != nil {
		deps.ShellHandler.RegisterRoutes(r.Group("/app", middleware.Identity(), limit))
	}

	return r
}

// rateLimit gives exports their own smaller budget.
func rateLimit(cfg config.Config) gin.HandlerFunc {
	rules := map[string]middleware.RateLimitRule{
		rateGroupExport: {Rate: 0.5, Burst: 3},
	}
	if cfg.RateLimitRPS > 0 {
		rules[rateGroupDefault] = middleware.RateLimitRule{Rate: cfg.RateLimitRPS, Burst: max(cfg.RateLimitBurst, 1)}
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor: middleware.GroupByRoute(map[string]string{
			"POST /api/v1/sessions/:id/export": rateGroupExport,
			"POST /app/:id/export":             rateGroupExport,
		}),
		Limiter: middleware.NewRateLimiter(nil),
		Rules:   rules,
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
