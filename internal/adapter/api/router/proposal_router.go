package router

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/domain/entity"
)

func SetupProposalRouter(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware) {
	proposalHandler := handler.GetProposalHandler()

	e.GET("/api/dashboard", proposalHandler.Dashboard, sessionMiddleware.Require)

	proposals := e.Group("/api/propostas")
	proposals.Use(sessionMiddleware.Require)

	proposals.POST("", proposalHandler.Create)
	proposals.POST("/:id/aceitar", proposalHandler.Transition(entity.ActionAccept))
	proposals.POST("/:id/recusar", proposalHandler.Transition(entity.ActionRefuse))
	proposals.POST("/:id/finalizar", proposalHandler.Transition(entity.ActionFinish))
	proposals.POST("/:id/avaliacao", proposalHandler.Rate)
}
