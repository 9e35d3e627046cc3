package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/ratelimit"
)

// RateLimit limits requests per client IP according to the given rule. With
// the rule disabled or no limiter configured it is a no-op.
func RateLimit(limiter *ratelimit.Limiter, rule config.RateLimitRule, logger *zap.Logger) gin.HandlerFunc {
	if limiter == nil || !rule.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	log := logger.Named("http")
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP(), rule.Limit, rule.Window)
		if err != nil {
			// Fail open, the limiter already logged the cause.
			c.Next()
			return
		}
		if !allowed {
			log.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  http.StatusTooManyRequests,
				"success": false,
				"error": gin.H{
					"message": "Too many requests. Please, try again later.",
					"code":    "too_many_requests",
				},
			})
			return
		}
		c.Next()
	}
}
