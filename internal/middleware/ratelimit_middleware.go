package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pulseboard/internal/redis"
	"pulseboard/internal/services"
	"pulseboard/internal/transport/httpdto"
	"pulseboard/pkg/logger"
)

// RateLimitAPI limits authenticated requests per user. Must run after
// AuthMiddleware. When redis is unavailable the request is allowed through;
// throttling is load shedding, not a security boundary.
func RateLimitAPI(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		result, err := limiter.AllowRequest(c.Request.Context(), userID.String())
		if err != nil {
			if l != nil {
				l.Warnf("rate limit check failed: %s", err.Error())
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limited", "RATE_LIMITED"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitAuth limits unauthenticated auth attempts per client IP.
func RateLimitAuth(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.AllowAuth(c.Request.Context(), c.ClientIP())
		if err != nil {
			if l != nil {
				l.Warnf("rate limit check failed: %s", err.Error())
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limited", "RATE_LIMITED"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, r *redis.RateLimitResult) {
	c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(r.Limit))
	c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(r.Remaining))
	c.Writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(int64(r.ResetIn.Seconds()), 10))
}
