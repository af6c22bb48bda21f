package handler

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/errors"
	"trocagames/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
	sessions    *middleware.SessionMiddleware
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase, sessions *middleware.SessionMiddleware) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		sessions:    sessions,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req entity.Credentials
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Dados de login inválidos.", err))
	}

	session, err := h.authUseCase.SignIn(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}

	h.sessions.SetCookie(c, session.ID)
	return response.Success(c, session.User)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req entity.Registration
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Dados de cadastro inválidos.", err))
	}

	if err := h.authUseCase.Register(c.Request().Context(), req); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"message": "Cadastro realizado com sucesso! Faça login para continuar.",
	})
}

// Logout always clears the cookie, even when the session was already gone.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.authUseCase.SignOut(c.Request().Context(), cookie.Value); err != nil {
			return response.Error(c, err)
		}
	}

	h.sessions.ClearCookie(c)
	return response.Success(c, map[string]string{"message": "Sessão encerrada."})
}
