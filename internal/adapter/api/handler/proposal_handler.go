package handler

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/errors"
	"trocagames/pkg/response"
)

type ProposalHandler struct {
	proposalUseCase *usecase.ProposalUseCase
	ratingUseCase   *usecase.RatingUseCase
	sessions        *middleware.SessionMiddleware
}

func NewProposalHandler(proposalUseCase *usecase.ProposalUseCase, ratingUseCase *usecase.RatingUseCase, sessions *middleware.SessionMiddleware) *ProposalHandler {
	return &ProposalHandler{
		proposalUseCase: proposalUseCase,
		ratingUseCase:   ratingUseCase,
		sessions:        sessions,
	}
}

func (h *ProposalHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.ratingUseCase.Dashboard(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.SuccessWithNotices(c, dashboard, dashboard.Notices)
}

func (h *ProposalHandler) Create(c echo.Context) error {
	var req entity.ProposalInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Dados da proposta inválidos.", err))
	}

	proposal, err := h.proposalUseCase.Create(c.Request().Context(), middleware.SessionFrom(c), req)
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.Created(c, proposal)
}

// Transition returns the handler of one action on /api/propostas/:id/<action>.
func (h *ProposalHandler) Transition(action entity.ProposalAction) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return response.Error(c, err)
		}

		result, err := h.ratingUseCase.Apply(c.Request().Context(), middleware.SessionFrom(c), id, action)
		if err != nil {
			return fail(c, h.sessions, err)
		}
		return response.SuccessWithNotices(c, result, result.Dashboard.Notices)
	}
}

func (h *ProposalHandler) Rate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req usecase.RateInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Dados da avaliação inválidos.", err))
	}

	dashboard, err := h.ratingUseCase.Rate(c.Request().Context(), middleware.SessionFrom(c), id, req)
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.SuccessWithNotices(c, dashboard, dashboard.Notices)
}
