package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"wall-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimiter is implemented by services.RedisService
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitMiddleware throttles requests through a RateLimiter. A nil
// limiter lets everything through.
type RateLimitMiddleware struct {
	limiter RateLimiter
}

func NewRateLimitMiddleware(limiter RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// RateLimit limits authenticated requests per user and route
func (rm *RateLimitMiddleware) RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "", "")
			return
		}
		rm.check(c, fmt.Sprintf("rate_limit:%d:%s", userID, c.FullPath()), requests, window)
	}
}

// WebSocketRateLimit limits connection attempts per client IP
func (rm *RateLimitMiddleware) WebSocketRateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		rm.check(c, fmt.Sprintf("rate_limit:websocket:%s", c.ClientIP()), requests, window)
	}
}

// RateLimitIP creates a rate limiting middleware for public routes based on IP address
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		rm.check(c, fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.FullPath()), requests, window)
	}
}

func (rm *RateLimitMiddleware) check(c *gin.Context, key string, requests int, window time.Duration) {
	if rm.limiter == nil {
		c.Next()
		return
	}

	allowed, err := rm.limiter.CheckRateLimit(c.Request.Context(), key, requests, window)
	if err != nil {
		// fail open
		slog.Warn("Rate limit check failed", "key", key, "error", err)
		c.Next()
		return
	}

	if !allowed {
		response.Error(c, http.StatusTooManyRequests, "",
			fmt.Sprintf("Too many requests. Limit: %d per %v", requests, window))
		return
	}

	c.Next()
}
