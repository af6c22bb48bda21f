package entity

import "time"

type ProposalStatus string

const (
	ProposalPending     ProposalStatus = "pendente"
	ProposalNegotiating ProposalStatus = "negociando"
	ProposalClosed      ProposalStatus = "fechada"
	ProposalRefused     ProposalStatus = "recusada"
)

func (s ProposalStatus) Terminal() bool {
	return s == ProposalClosed || s == ProposalRefused
}

// ProposalAction is the path segment of POST /proposta/:id/<action>.
type ProposalAction string

const (
	ActionAccept ProposalAction = "aceitar"
	ActionRefuse ProposalAction = "recusar"
	ActionFinish ProposalAction = "finalizar"
)

// Direction is relative to whoever is looking at the proposal. It is never stored.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleProposer Role = "proposer"
)

type Proposal struct {
	ID        int64          `json:"id"`
	AnuncioID int64          `json:"anuncioId"`
	UserID    int64          `json:"userId"`
	Valor     *float64       `json:"valor,omitempty"`
	Mensagem  string         `json:"mensagem"`
	Status    ProposalStatus `json:"status"`
	Anuncio   *Listing       `json:"anuncio,omitempty"`
	Avaliacao *Rating        `json:"avaliacao,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (p *Proposal) Rated() bool {
	return p.Avaliacao != nil
}

type ProposalInput struct {
	AnuncioID int64    `json:"anuncioId" validate:"required,gt=0"`
	Valor     *float64 `json:"valor,omitempty" validate:"omitempty,gte=0"`
	Mensagem  string   `json:"mensagem" validate:"required"`
}

// ProposalView is a proposal projected for one viewer.
type ProposalView struct {
	Proposal
	Direction Direction        `json:"direction"`
	Role      Role             `json:"role"`
	Actions   []ProposalAction `json:"actions"`
	CanRate   bool             `json:"canRate"`
}
