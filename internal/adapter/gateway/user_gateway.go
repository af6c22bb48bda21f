package gateway

import (
	"context"
	"fmt"
	"net/http"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/pkg/errors"
)

type authGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) gateway.AuthGateway {
	return &authGateway{client: client}
}

type loginResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (g *authGateway) Login(ctx context.Context, credentials entity.Credentials) (*entity.User, string, error) {
	req, err := request{
		method:   http.MethodPost,
		path:     "/user/login",
		fallback: "Erro ao realizar login.",
	}.withJSON(credentials)
	if err != nil {
		return nil, "", err
	}

	var resp loginResponse
	if err := g.client.do(ctx, req, &resp); err != nil {
		return nil, "", err
	}

	if resp.User == nil || resp.Token == "" {
		return nil, "", errors.BadRequest("Dados de login inválidos.", nil)
	}
	return resp.User, resp.Token, nil
}

func (g *authGateway) Register(ctx context.Context, registration entity.Registration) error {
	payload := struct {
		Nome      string `json:"nome"`
		Sobrenome string `json:"sobrenome"`
		Email     string `json:"email"`
		Celular   string `json:"celular"`
		Cep       string `json:"cep"`
		Senha     string `json:"senha"`
	}{
		Nome:      registration.Nome,
		Sobrenome: registration.Sobrenome,
		Email:     registration.Email,
		Celular:   registration.Celular,
		Cep:       registration.Cep,
		Senha:     registration.Senha,
	}

	req, err := request{
		method:   http.MethodPost,
		path:     "/user/register",
		fallback: "Erro desconhecido ao cadastrar usuário.",
	}.withJSON(payload)
	if err != nil {
		return err
	}
	return g.client.do(ctx, req, nil)
}

type userGateway struct {
	client *Client
}

func NewUserGateway(client *Client) gateway.UserGateway {
	return &userGateway{client: client}
}

func (g *userGateway) Get(ctx context.Context, token string, userID int64) (*entity.User, error) {
	var resp struct {
		User *entity.User `json:"user"`
	}
	err := g.client.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/user/%d", userID),
		token:    token,
		fallback: "Erro ao carregar dados do usuário",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.NotFound("Usuário", nil)
	}
	return resp.User, nil
}

func (g *userGateway) Update(ctx context.Context, token string, userID int64, patch entity.ProfilePatch) error {
	req, err := request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/user/%d", userID),
		token:    token,
		fallback: "Erro desconhecido ao atualizar o usuário.",
	}.withJSON(patch)
	if err != nil {
		return err
	}
	return g.client.do(ctx, req, nil)
}

func (g *userGateway) UploadPhoto(ctx context.Context, token string, userID int64, photo entity.Upload, oldFotoURL string) (string, error) {
	f := newForm()
	f.file("foto", &photo)
	f.field("oldFotoUrl", oldFotoURL)

	body, ctype, err := f.finish()
	if err != nil {
		return "", formError(err)
	}

	var resp struct {
		FotoURL string `json:"fotoUrl"`
		URL     string `json:"url"`
	}
	err = g.client.do(ctx, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/user/%d/upload-foto", userID),
		token:    token,
		body:     body,
		ctype:    ctype,
		fallback: "Erro desconhecido ao atualizar a foto.",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.FotoURL != "" {
		return resp.FotoURL, nil
	}
	return resp.URL, nil
}
