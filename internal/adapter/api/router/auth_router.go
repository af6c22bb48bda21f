package router

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login, middleware.RateLimit(limiter, ratelimit.ActionLogin))
	auth.POST("/register", authHandler.Register, middleware.RateLimit(limiter, ratelimit.ActionRegister))
	auth.POST("/logout", authHandler.Logout)
}
