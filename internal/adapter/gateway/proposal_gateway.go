package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/pkg/errors"
)

type proposalGateway struct {
	client *Client
}

func NewProposalGateway(client *Client) gateway.ProposalGateway {
	return &proposalGateway{client: client}
}

// proposalsEnvelope accepts a bare array or {"propostas": [...]}.
type proposalsEnvelope struct {
	Proposals []entity.Proposal
}

func (e *proposalsEnvelope) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &e.Proposals); err == nil {
		return nil
	}
	var outer struct {
		Propostas []entity.Proposal `json:"propostas"`
	}
	if err := json.Unmarshal(data, &outer); err != nil {
		return err
	}
	e.Proposals = outer.Propostas
	return nil
}

type proposalCreateResponse struct {
	Message    string           `json:"message"`
	Cadastrada *bool            `json:"cadastrada"`
	Proposta   *entity.Proposal `json:"proposta"`
	entity.Proposal
}

func (g *proposalGateway) Create(ctx context.Context, token string, input entity.ProposalInput) (*entity.Proposal, error) {
	req, err := request{
		method:   http.MethodPost,
		path:     "/proposta",
		token:    token,
		fallback: "Erro desconhecido ao criar proposta.",
	}.withJSON(input)
	if err != nil {
		return nil, err
	}

	var resp proposalCreateResponse
	if err := g.client.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	switch {
	case resp.Proposta != nil:
		return resp.Proposta, nil
	case resp.Status == entity.ProposalPending:
		p := resp.Proposal
		return &p, nil
	case resp.Cadastrada != nil && *resp.Cadastrada:
		return &entity.Proposal{
			AnuncioID: input.AnuncioID,
			Valor:     input.Valor,
			Mensagem:  input.Mensagem,
			Status:    entity.ProposalPending,
		}, nil
	}

	message := resp.Message
	if message == "" {
		message = "Erro desconhecido ao criar proposta."
	}
	return nil, errors.Upstream(http.StatusUnprocessableEntity, message, nil)
}

func (g *proposalGateway) list(ctx context.Context, token, path string) ([]entity.Proposal, error) {
	var envelope proposalsEnvelope
	err := g.client.do(ctx, request{
		method:   http.MethodGet,
		path:     path,
		token:    token,
		fallback: "Erro ao carregar propostas",
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.Proposals == nil {
		return []entity.Proposal{}, nil
	}
	return envelope.Proposals, nil
}

func (g *proposalGateway) ListSent(ctx context.Context, token string) ([]entity.Proposal, error) {
	return g.list(ctx, token, "/proposta/user")
}

func (g *proposalGateway) ListReceived(ctx context.Context, token string) ([]entity.Proposal, error) {
	return g.list(ctx, token, "/proposta/anuncio")
}

var transitionFallbacks = map[entity.ProposalAction]string{
	entity.ActionAccept: "Erro desconhecido ao aceitar proposta.",
	entity.ActionRefuse: "Erro ao recusar proposta.",
	entity.ActionFinish: "Erro desconhecido ao finalizar proposta.",
}

func (g *proposalGateway) Transition(ctx context.Context, token string, proposalID int64, action entity.ProposalAction) error {
	fallback, ok := transitionFallbacks[action]
	if !ok {
		return errors.BadRequest(fmt.Sprintf("Ação desconhecida: %s", action), nil)
	}

	req, err := request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/proposta/%d/%s", proposalID, action),
		token:    token,
		fallback: fallback,
	}.withJSON(struct{}{})
	if err != nil {
		return err
	}
	return g.client.do(ctx, req, nil)
}
