package router

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/api/notifications")
	notifications.Use(sessionMiddleware.Require)

	notifications.GET("", notificationHandler.List)
	notifications.POST("/read", notificationHandler.MarkRead)
}
