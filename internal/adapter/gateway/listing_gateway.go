package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/pkg/errors"
)

type listingGateway struct {
	client *Client
}

func NewListingGateway(client *Client) gateway.ListingGateway {
	return &listingGateway{client: client}
}

// listingsEnvelope accepts the shapes GET /anuncio has been seen to return:
// {"anuncios": [...]}, {"anuncios": {"anuncios": [...]}} or a bare array.
type listingsEnvelope struct {
	Listings []entity.Listing
}

func (e *listingsEnvelope) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &e.Listings); err == nil {
		return nil
	}

	var outer struct {
		Anuncios json.RawMessage `json:"anuncios"`
	}
	if err := json.Unmarshal(data, &outer); err != nil {
		return err
	}
	if len(outer.Anuncios) == 0 || string(outer.Anuncios) == "null" {
		e.Listings = nil
		return nil
	}
	return e.UnmarshalJSON(outer.Anuncios)
}

type listingWriteResponse struct {
	Message    string          `json:"message"`
	Cadastrado *bool           `json:"cadastrado"`
	Anuncio    *entity.Listing `json:"anuncio"`
}

func (g *listingGateway) List(ctx context.Context, token string, filter entity.ListingFilter) ([]entity.Listing, error) {
	var envelope listingsEnvelope
	err := g.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/anuncio",
		token:    token,
		query:    filter.Query(),
		fallback: "Erro ao carregar anúncios",
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.Listings == nil {
		return []entity.Listing{}, nil
	}
	return envelope.Listings, nil
}

func (g *listingGateway) Create(ctx context.Context, token string, input entity.ListingInput) (*entity.Listing, error) {
	f := newForm()
	f.field("titulo", input.Titulo)
	f.field("descricao", input.Descricao)
	f.field("consoleId", strconv.Itoa(int(input.ConsoleID)))
	f.field("valor", strconv.FormatFloat(input.Valor, 'f', -1, 64))
	f.field("venda", strconv.FormatBool(input.Venda))
	f.field("troca", strconv.FormatBool(input.Troca))
	f.file("foto", input.Foto)

	body, ctype, err := f.finish()
	if err != nil {
		return nil, formError(err)
	}

	var resp listingWriteResponse
	err = g.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/anuncio",
		token:    token,
		body:     body,
		ctype:    ctype,
		fallback: "Erro desconhecido ao cadastrar anúncio.",
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Cadastrado != nil && !*resp.Cadastrado {
		message := resp.Message
		if message == "" {
			message = "Erro desconhecido ao cadastrar anúncio."
		}
		return nil, errors.Upstream(http.StatusUnprocessableEntity, message, nil)
	}
	if resp.Anuncio == nil {
		return nil, errors.Upstream(http.StatusBadGateway, "Resposta inesperada ao cadastrar anúncio.", nil)
	}
	return resp.Anuncio, nil
}

func (g *listingGateway) Update(ctx context.Context, token string, id int64, patch entity.ListingPatch) (*entity.Listing, error) {
	f := newForm()
	f.optionalString("titulo", patch.Titulo)
	f.optionalString("descricao", patch.Descricao)
	f.optionalFloat("valor", patch.Valor)
	if patch.ConsoleID != nil {
		f.field("consoleId", strconv.Itoa(int(*patch.ConsoleID)))
	}
	f.optionalBool("venda", patch.Venda)
	f.optionalBool("troca", patch.Troca)
	f.file("foto", patch.Foto)

	body, ctype, err := f.finish()
	if err != nil {
		return nil, formError(err)
	}

	var resp listingWriteResponse
	err = g.client.do(ctx, request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/anuncio/%d", id),
		token:    token,
		body:     body,
		ctype:    ctype,
		fallback: "Erro ao atualizar o anúncio.",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Anuncio, nil
}

func (g *listingGateway) Delete(ctx context.Context, token string, id int64) error {
	return g.client.do(ctx, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/anuncio/%d", id),
		token:    token,
		fallback: "Erro desconhecido ao deletar anúncio.",
	}, nil)
}
