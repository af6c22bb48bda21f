package handler

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
	sessions    *middleware.SessionMiddleware
}

func NewUserHandler(userUseCase *usecase.UserUseCase, sessions *middleware.SessionMiddleware) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		sessions:    sessions,
	}
}

func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.Success(c, user)
}

// UpdateMe accepts a form (urlencoded or multipart) with the changed fields and an
// optional foto.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	params, err := formValues(c)
	if err != nil {
		return response.Error(c, err)
	}

	patch := entity.ProfilePatch{
		Nome:      optionalString(params, "nome"),
		Sobrenome: optionalString(params, "sobrenome"),
		Celular:   optionalString(params, "celular"),
		Cep:       optionalString(params, "cep"),
	}

	photo, err := formUpload(c, "foto")
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), middleware.SessionFrom(c), patch, photo)
	if err != nil {
		return fail(c, h.sessions, err)
	}
	return response.Success(c, user)
}
