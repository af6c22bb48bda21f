package gateway

import (
	"context"
	"net/http"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
)

type ratingGateway struct {
	client *Client
}

func NewRatingGateway(client *Client) gateway.RatingGateway {
	return &ratingGateway{client: client}
}

func (g *ratingGateway) Create(ctx context.Context, token string, input entity.RatingInput) error {
	req, err := request{
		method:   http.MethodPost,
		path:     "/avaliacao",
		token:    token,
		fallback: "Erro ao criar avaliação.",
	}.withJSON(input)
	if err != nil {
		return err
	}
	return g.client.do(ctx, req, nil)
}
