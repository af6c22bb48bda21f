package entity

import "time"

type Notification struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	AnuncioID  int64     `json:"anuncioId"`
	PropostaID int64     `json:"propostaId"`
	Title      string    `json:"title"`
	TitleGame  string    `json:"titleGame"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}
