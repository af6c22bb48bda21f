package router

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Public, but a signed-in viewer does not see their own listings.
	e.GET("/api/anuncios", listingHandler.List, sessionMiddleware.Optional)

	listings := e.Group("/api/anuncios")
	listings.Use(sessionMiddleware.Require)

	listings.POST("", listingHandler.Create)
	listings.PATCH("/:id", listingHandler.Update)
	listings.DELETE("/:id", listingHandler.Delete)
}
