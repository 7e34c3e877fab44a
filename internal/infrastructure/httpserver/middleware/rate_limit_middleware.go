package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiter
	logger      *logrus.Logger
	rejections  *prometheus.CounterVec
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiter, logger *logrus.Logger, rejections *prometheus.CounterVec) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger, rejections: rejections}
}

// Limit creates middleware that enforces a per-client request budget for
// endpoint. Rejections carry Retry-After with the seconds until the window
// resets.
func (r *RateLimitMiddleware) Limit(endpoint string, limit ports.Limit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := helpers.ClientIdentifier(c)

			decision, err := r.rateLimiter.Check(c.Request().Context(), identifier, endpoint, limit)

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit.Max))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.Reset.Unix()))

			if err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithFields(logrus.Fields{
						"identifier": identifier,
						"endpoint":   endpoint,
					}).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			if !decision.Allowed {
				if r.rejections != nil {
					r.rejections.WithLabelValues(endpoint).Inc()
				}
				retryAfter := int(time.Until(decision.Reset).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				return helpers.Fail(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			}
			return next(c)
		}
	}
}
