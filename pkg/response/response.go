package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "trocagames/pkg/errors"
	"trocagames/pkg/validation"
)

// LoginPath is where the browser goes after a forced sign-out.
const LoginPath = "/login"

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Notices   []string    `json:"notices,omitempty"`
	Redirect  string      `json:"redirect,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

// SuccessWithNotices is Success for reads that may have degraded.
func SuccessWithNotices(c echo.Context, data interface{}, notices []string) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Notices:   notices,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return fail(c, http.StatusBadRequest, apperrors.CodeValidation, validation.Message(validationErr))
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp := Response{
			Success:   false,
			Timestamp: now(),
			Error: &ErrorInfo{
				Code:    appErr.Code,
				Message: appErr.Message,
			},
		}
		if appErr.Code == apperrors.CodeSessionExpired {
			resp.Redirect = LoginPath
		}
		return c.JSON(appErr.Status, resp)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		return fail(c, httpErr.Code, apperrors.CodeBadRequest, message)
	}

	return fail(c, http.StatusInternalServerError, apperrors.CodeInternal, "Ocorreu um erro inesperado")
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Response{
		Success:   false,
		Timestamp: now(),
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
