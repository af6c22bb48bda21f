package entity

import "time"

// Rating is an "avaliação", attached once to a closed proposal by its proposer.
type Rating struct {
	ID         int64     `json:"id"`
	Estrelas   int       `json:"estrelas"`
	Comentario string    `json:"comentario"`
	UserID     int64     `json:"userId,omitempty"`
	AvaliadoID int64     `json:"avaliadoId,omitempty"`
	AnuncioID  int64     `json:"anuncioId"`
	PropostaID int64     `json:"propostaId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RatingInput struct {
	AnuncioID  int64  `json:"anuncioId" validate:"required,gt=0"`
	PropostaID int64  `json:"propostaId" validate:"required,gt=0"`
	Estrelas   int    `json:"estrelas" validate:"required,min=1,max=5"`
	Comentario string `json:"comentario"`
}
