package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"venyuk/internal/shared/utils/response"
	"venyuk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware enforces the per-IP budget of the matched route. The client IP
// comes from gin, which only honors forwarding headers sent by the engine's
// trusted proxies. A Redis failure lets the request through.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	log := logger.GetDefault()

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			log.ErrorWithContext(c.Request.Context(), "Rate limit check failed", err, map[string]interface{}{
				"client_ip":  clientIP,
				"limit_type": string(limitType),
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType picks the budget for a route template
func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	// writes that lock a venue, promo or match row
	case strings.HasSuffix(path, "/venues/:id/bookings"),
		strings.HasSuffix(path, "/bookings/:id/cancel"),
		strings.HasSuffix(path, "/matches/:id/join"),
		strings.HasSuffix(path, "/products/:id/checkout"):
		return RateLimitTypeBookingCritical

	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/matches"),
		strings.Contains(path, "/purchases"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/venues"),
		strings.Contains(path, "/promos"),
		strings.Contains(path, "/products"),
		strings.Contains(path, "/categories"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}
