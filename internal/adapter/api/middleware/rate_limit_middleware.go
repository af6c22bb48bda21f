package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"trocagames/internal/infrastructure/ratelimit"
	"trocagames/pkg/errors"
	"trocagames/pkg/logger"
	"trocagames/pkg/response"
)

// RateLimit limits action per client IP.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.Allow(ip, action)
			if !allowed {
				logger.Warn("RATE LIMIT: %s blocked for IP %s (retry in %v)", action, ip, wait)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Muitas tentativas. Tente novamente em instantes."))
			}

			return next(c)
		}
	}
}
