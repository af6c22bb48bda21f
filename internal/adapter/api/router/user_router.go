package router

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware) {
	userHandler := handler.GetUserHandler()
	listingHandler := handler.GetListingHandler()

	me := e.Group("/api/me")
	me.Use(sessionMiddleware.Require)

	me.GET("", userHandler.GetMe)
	me.PATCH("", userHandler.UpdateMe)
	me.GET("/anuncios", listingHandler.Mine)
}
