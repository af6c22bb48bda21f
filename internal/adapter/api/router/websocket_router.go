package router

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
)

// SetupWebSocketRouter sets up the browser notification relay
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, sessionMiddleware *middleware.SessionMiddleware) {
	e.GET("/ws", wsHandler.HandleWebSocket, sessionMiddleware.Require)
}
