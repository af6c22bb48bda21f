package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingFilterQuery(t *testing.T) {
	lo, hi := 10.0, 2000.0

	q := ListingFilter{
		ExcludeUserID: 42,
		ExcludeStatus: ListingClosed,
		Titulo:        "zelda",
		ConsoleID:     ConsolePS5,
		AvaliacaoMin:  4,
		Tipo:          TypeSale,
		ValorMin:      &lo,
		ValorMax:      &hi,
	}.Query()

	assert.Equal(t, "42", q.Get("excludeUserId"))
	assert.Equal(t, "fechado", q.Get("excludeStatus"))
	assert.Equal(t, "zelda", q.Get("titulo"))
	assert.Equal(t, "5", q.Get("consoleId"))
	assert.Equal(t, "4", q.Get("avaliacaoMin"))
	assert.Equal(t, "venda", q.Get("tipo"))
	assert.Equal(t, "10", q.Get("valorMin"))
	assert.Equal(t, "2000", q.Get("valorMax"))
	assert.False(t, q.Has("userId"))
}

func TestListingFilterQueryDropsPriceForTrade(t *testing.T) {
	lo, hi := 10.0, 2000.0

	q := ListingFilter{Tipo: TypeTrade, ValorMin: &lo, ValorMax: &hi}.Query()

	assert.Equal(t, "troca", q.Get("tipo"))
	assert.False(t, q.Has("valorMin"))
	assert.False(t, q.Has("valorMax"))
}

func TestListingFilterQueryIgnoresUnknownType(t *testing.T) {
	lo := 50.0
	q := ListingFilter{Tipo: "leilao", ValorMin: &lo}.Query()

	assert.False(t, q.Has("tipo"))
	assert.Equal(t, "50", q.Get("valorMin"))
}

func TestListingEditable(t *testing.T) {
	l := Listing{UserID: 3, Status: ListingOpen}
	assert.True(t, l.Editable(3))
	assert.False(t, l.Editable(4))

	l.Status = ListingNegotiating
	assert.False(t, l.Editable(3))
	assert.False(t, (&Listing{}).Editable(0))
}
