package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
)

const defaultRateLimitGroup = "DEFAULT"

// RateLimitRule is a token bucket: Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig picks a rule per request. Requests whose group has no
// rule pass through.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one bucket per visitor and group. Buckets idle longer
// than IdleAfter are dropped on a later Allow.
type RateLimiter struct {
	IdleAfter time.Duration

	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastPrune time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		IdleAfter: 10 * time.Minute,
		buckets:   make(map[string]*rateBucket),
		now:       now,
	}
}

// GroupByRoute maps "METHOD /route/:param" keys to groups; anything else
// falls into the default group.
func GroupByRoute(routes map[string]string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		return routes[c.Request.Method+" "+c.FullPath()]
	}
}

// RateLimit rejects requests over budget with 429 and Retry-After. Visitors
// are keyed by their guest id, falling back to the client address.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}

		visitor := UserIDFromContext(c)
		if visitor == "" {
			visitor = c.ClientIP()
		}
		allowed, wait := cfg.Limiter.Allow(visitor+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}

		waitMs := max(int(wait/time.Millisecond), 1)
		c.Header("Retry-After", strconv.Itoa(max(int(math.Ceil(float64(waitMs)/1000)), 1)))
		respond.Error(c, http.StatusTooManyRequests, respond.CodeRateLimited, "Too many requests, slow down", gin.H{"retryAfterMs": waitMs})
	}
}

// Allow takes a token from key's bucket, or reports how long until one is
// available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(rule.Burst), b.tokens+elapsed*rule.Rate)
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	waitSec := (1 - b.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(waitSec*1000)) * time.Millisecond
}

// Len reports the number of live buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *RateLimiter) pruneLocked(now time.Time) {
	if l.IdleAfter <= 0 || now.Sub(l.lastPrune) < l.IdleAfter {
		return
	}
	l.lastPrune = now
	for key, b := range l.buckets {
		if now.Sub(b.last) > l.IdleAfter {
			delete(l.buckets, key)
		}
	}
}
