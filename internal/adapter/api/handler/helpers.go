package handler

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/domain/entity"
	"trocagames/pkg/errors"
	"trocagames/pkg/response"
)

const maxUploadSize = 5 << 20

// fail writes err, dropping the session cookie when the API rejected the token.
func fail(c echo.Context, sessions *middleware.SessionMiddleware, err error) error {
	if errors.IsSessionExpired(err) && sessions != nil {
		sessions.ClearCookie(c)
	}
	return response.Error(c, err)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("ID inválido", err)
	}
	return id, nil
}

// formUpload reads an optional file field into memory.
func formUpload(c echo.Context, field string) (*entity.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) || stderrors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errors.BadRequest("Arquivo inválido", err)
	}
	if header.Size > maxUploadSize {
		return nil, errors.Validation("A imagem deve ter no máximo 5MB.", nil)
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.BadRequest("Arquivo inválido", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, errors.BadRequest("Arquivo inválido", err)
	}
	return &entity.Upload{Filename: header.Filename, Content: content}, nil
}

// formValues parses an urlencoded or multipart body.
func formValues(c echo.Context) (map[string][]string, error) {
	params, err := c.FormParams()
	if err != nil {
		return nil, errors.BadRequest("Formulário inválido", err)
	}
	return params, nil
}

func optionalString(params map[string][]string, key string) *string {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func optionalFloat(params map[string][]string, key string) (*float64, error) {
	s := optionalString(params, key)
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, errors.Validation(key+" deve ser um número", err)
	}
	return &v, nil
}

func optionalInt(params map[string][]string, key string) (*int64, error) {
	s := optionalString(params, key)
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return nil, errors.Validation(key+" deve ser um número inteiro", err)
	}
	return &v, nil
}

func optionalBool(params map[string][]string, key string) (*bool, error) {
	s := optionalString(params, key)
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(*s)
	if err != nil {
		return nil, errors.Validation(key+" deve ser true ou false", err)
	}
	return &v, nil
}

// requireSession is for handlers mounted without the Require middleware.
func requireSession(c echo.Context) (*entity.Session, error) {
	session := middleware.SessionFrom(c)
	if session == nil {
		return nil, errors.SessionExpired(nil)
	}
	return session, nil
}
