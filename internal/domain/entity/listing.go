package entity

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type ListingStatus string

const (
	ListingOpen        ListingStatus = "aberto"
	ListingNegotiating ListingStatus = "negociando"
	ListingClosed      ListingStatus = "fechado"
)

type Console int

const (
	ConsolePS1 Console = iota + 1
	ConsolePS2
	ConsolePS3
	ConsolePS4
	ConsolePS5
	ConsoleXbox360
	ConsoleXboxOne
	ConsoleXboxSeries
)

var consoleNames = map[Console]string{
	ConsolePS1:        "PS1",
	ConsolePS2:        "PS2",
	ConsolePS3:        "PS3",
	ConsolePS4:        "PS4",
	ConsolePS5:        "PS5",
	ConsoleXbox360:    "XBOX_360",
	ConsoleXboxOne:    "XBOX_ONE",
	ConsoleXboxSeries: "XBOX_SERIES",
}

func (c Console) Valid() bool {
	_, ok := consoleNames[c]
	return ok
}

func (c Console) String() string {
	if name, ok := consoleNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Console(%d)", int(c))
}

// Listing is an "anúncio": a console or game offered for sale and/or trade.
type Listing struct {
	ID        int64         `json:"id"`
	Titulo    string        `json:"titulo"`
	Descricao string        `json:"descricao"`
	Valor     float64       `json:"valor"`
	Venda     bool          `json:"venda"`
	Troca     bool          `json:"troca"`
	Status    ListingStatus `json:"status"`
	FotoURL   string        `json:"fotoUrl,omitempty"`
	ConsoleID Console       `json:"consoleId"`
	UserID    int64         `json:"userId"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (l *Listing) OwnedBy(userID int64) bool {
	return userID != 0 && l.UserID == userID
}

// Editable reports whether viewer may edit or delete the listing.
func (l *Listing) Editable(viewerID int64) bool {
	return l.OwnedBy(viewerID) && l.Status == ListingOpen
}

type ListingInput struct {
	Titulo    string  `validate:"required"`
	Descricao string  `validate:"required"`
	Valor     float64 `validate:"gte=0"`
	ConsoleID Console `validate:"console"`
	Venda     bool
	Troca     bool
	Foto      *Upload
}

// ListingPatch is a partial update; nil fields are not sent.
type ListingPatch struct {
	Titulo    *string
	Descricao *string
	Valor     *float64 `validate:"omitempty,gte=0"`
	ConsoleID *Console `validate:"omitempty,console"`
	Venda     *bool
	Troca     *bool
	Foto      *Upload
}

func (p ListingPatch) Empty() bool {
	return p.Titulo == nil && p.Descricao == nil && p.Valor == nil && p.ConsoleID == nil &&
		p.Venda == nil && p.Troca == nil && p.Foto == nil
}

type ListingType string

const (
	TypeSale  ListingType = "venda"
	TypeTrade ListingType = "troca"
	TypeBoth  ListingType = "ambos"
)

func (t ListingType) Valid() bool {
	return t == TypeSale || t == TypeTrade || t == TypeBoth
}

// ListingFilter holds the optional parameters of GET /anuncio. Zero values are omitted.
type ListingFilter struct {
	UserID        int64
	ExcludeUserID int64
	ExcludeStatus ListingStatus
	Status        ListingStatus
	Titulo        string
	Descricao     string
	ConsoleID     Console
	AvaliacaoMin  int
	Tipo          ListingType
	ValorMin      *float64
	ValorMax      *float64
}

// Query builds the URL parameters. The price range is dropped for trade-only searches.
func (f ListingFilter) Query() url.Values {
	params := url.Values{}

	if f.UserID != 0 {
		params.Set("userId", strconv.FormatInt(f.UserID, 10))
	}
	if f.ExcludeUserID != 0 {
		params.Set("excludeUserId", strconv.FormatInt(f.ExcludeUserID, 10))
	}
	if f.ExcludeStatus != "" {
		params.Set("excludeStatus", string(f.ExcludeStatus))
	}
	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.Titulo != "" {
		params.Set("titulo", f.Titulo)
	}
	if f.Descricao != "" {
		params.Set("descricao", f.Descricao)
	}
	if f.ConsoleID != 0 {
		params.Set("consoleId", strconv.Itoa(int(f.ConsoleID)))
	}
	if f.AvaliacaoMin > 0 {
		params.Set("avaliacaoMin", strconv.Itoa(f.AvaliacaoMin))
	}

	tipo := f.Tipo
	if !tipo.Valid() {
		tipo = ""
	}
	if tipo != "" {
		params.Set("tipo", string(tipo))
	}

	if tipo != TypeTrade {
		if f.ValorMin != nil {
			params.Set("valorMin", strconv.FormatFloat(*f.ValorMin, 'f', -1, 64))
		}
		if f.ValorMax != nil {
			params.Set("valorMax", strconv.FormatFloat(*f.ValorMax, 'f', -1, 64))
		}
	}

	return params
}
