package router

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware, limiter *ratelimit.RateLimiter, wsHandler *handler.WebSocketHandler) {
	SetupAuthRouter(e, sessionMiddleware, limiter)
	SetupUserRouter(e, sessionMiddleware)
	SetupListingRouter(e, sessionMiddleware)
	SetupProposalRouter(e, sessionMiddleware)
	SetupNotificationRouter(e, sessionMiddleware)
	SetupWebSocketRouter(e, wsHandler, sessionMiddleware)
	SetupHealthRouter(e)
}
