package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/og-claim/internal/api/shared/errors"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/metrics"
	"github.com/feral-file/og-claim/internal/ratelimit"
)

// RateLimitPolicy is a fixed window allowance for one route scope
type RateLimitPolicy struct {
	Window      time.Duration
	MaxRequests int
}

// RateLimit counts requests per scope and client IP and rejects those over the policy
// with 429 and a Retry-After header. A limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, policy RateLimitPolicy, m *metrics.Metrics) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(policy.Window.Seconds()))

	return func(c *gin.Context) {
		if policy.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key, policy.Window, policy.MaxRequests)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Rate limiter unavailable, allowing request",
				zap.String("scope", scope),
				zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			m.IncRateLimitRejection(scope)
			logger.InfoCtx(c.Request.Context(), "Rate limit exceeded",
				zap.String("scope", scope),
				zap.String("client_ip", c.ClientIP()))

			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.ErrorResponse{
				Error: apierrors.NewRateLimitedError("Too many requests. Please try again later."),
			})
			return
		}

		c.Next()
	}
}
