package handler

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/response"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
	sessions       *middleware.SessionMiddleware
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase, sessions *middleware.SessionMiddleware) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		sessions:       sessions,
	}
}

var searchParams = []string{"titulo", "descricao", "status", "consoleId", "avaliacaoMin", "tipo", "valorMin", "valorMax"}

// List serves the home feed, or a filtered search when any filter is given.
func (h *ListingHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	session := middleware.SessionFrom(c)
	query := c.QueryParams()

	searching := false
	for _, key := range searchParams {
		if query.Get(key) != "" {
			searching = true
			break
		}
	}

	var (
		result *usecase.ListingResult
		err    error
	)
	if searching {
		filter, ferr := parseFilter(query)
		if ferr != nil {
			return response.Error(c, ferr)
		}
		result, err = h.listingUseCase.Search(ctx, session, filter)
	} else {
		result, err = h.listingUseCase.Feed(ctx, session)
	}
	if err != nil {
		return fail(c, h.sessions, err)
	}

	return response.SuccessWithNotices(c, result.Listings, result.Notices)
}

func (h *ListingHandler) Mine(c echo.Context) error {
	result, err := h.listingUseCase.Mine(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.SuccessWithNotices(c, result.Listings, result.Notices)
}

func parseFilter(query map[string][]string) (entity.ListingFilter, error) {
	filter := entity.ListingFilter{
		Titulo:    first(query, "titulo"),
		Descricao: first(query, "descricao"),
		Status:    entity.ListingStatus(first(query, "status")),
		Tipo:      entity.ListingType(first(query, "tipo")),
	}

	consoleID, err := optionalInt(query, "consoleId")
	if err != nil {
		return filter, err
	}
	if consoleID != nil {
		filter.ConsoleID = entity.Console(*consoleID)
	}

	avaliacao, err := optionalInt(query, "avaliacaoMin")
	if err != nil {
		return filter, err
	}
	if avaliacao != nil {
		filter.AvaliacaoMin = int(*avaliacao)
	}

	if filter.ValorMin, err = optionalFloat(query, "valorMin"); err != nil {
		return filter, err
	}
	if filter.ValorMax, err = optionalFloat(query, "valorMax"); err != nil {
		return filter, err
	}
	return filter, nil
}

func first(params map[string][]string, key string) string {
	if v := optionalString(params, key); v != nil {
		return *v
	}
	return ""
}

func (h *ListingHandler) Create(c echo.Context) error {
	params, err := formValues(c)
	if err != nil {
		return response.Error(c, err)
	}

	input := entity.ListingInput{
		Titulo:    first(params, "titulo"),
		Descricao: first(params, "descricao"),
	}

	consoleID, err := optionalInt(params, "consoleId")
	if err != nil {
		return response.Error(c, err)
	}
	if consoleID != nil {
		input.ConsoleID = entity.Console(*consoleID)
	}

	valor, err := optionalFloat(params, "valor")
	if err != nil {
		return response.Error(c, err)
	}
	if valor != nil {
		input.Valor = *valor
	}

	venda, err := optionalBool(params, "venda")
	if err != nil {
		return response.Error(c, err)
	}
	troca, err := optionalBool(params, "troca")
	if err != nil {
		return response.Error(c, err)
	}
	input.Venda = venda != nil && *venda
	input.Troca = troca != nil && *troca

	if input.Foto, err = formUpload(c, "foto"); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), middleware.SessionFrom(c), input)
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.Created(c, listing)
}

func (h *ListingHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	params, err := formValues(c)
	if err != nil {
		return response.Error(c, err)
	}

	patch := entity.ListingPatch{
		Titulo:    optionalString(params, "titulo"),
		Descricao: optionalString(params, "descricao"),
	}

	consoleID, err := optionalInt(params, "consoleId")
	if err != nil {
		return response.Error(c, err)
	}
	if consoleID != nil {
		console := entity.Console(*consoleID)
		patch.ConsoleID = &console
	}
	if patch.Valor, err = optionalFloat(params, "valor"); err != nil {
		return response.Error(c, err)
	}
	if patch.Venda, err = optionalBool(params, "venda"); err != nil {
		return response.Error(c, err)
	}
	if patch.Troca, err = optionalBool(params, "troca"); err != nil {
		return response.Error(c, err)
	}
	if patch.Foto, err = formUpload(c, "foto"); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Update(c.Request().Context(), middleware.SessionFrom(c), id, patch)
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.listingUseCase.Delete(c.Request().Context(), middleware.SessionFrom(c), id); err != nil {
		return fail(c, h.sessions, err)
	}
	return response.Success(c, map[string]string{"message": "Anúncio excluído com sucesso."})
}
