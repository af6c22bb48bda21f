package usecase

import (
	"context"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/pkg/errors"
	"trocagames/pkg/logger"
)

const listingsUnavailable = "Não foi possível carregar os anúncios."

// ListingResult is a fail-open read: Notices explain why Listings may be incomplete.
type ListingResult struct {
	Listings []entity.Listing `json:"anuncios"`
	Notices  []string         `json:"notices,omitempty"`
}

type ListingUseCase struct {
	listingGateway gateway.ListingGateway
	sessions       *SessionStore
}

func NewListingUseCase(listingGateway gateway.ListingGateway, sessions *SessionStore) *ListingUseCase {
	return &ListingUseCase{
		listingGateway: listingGateway,
		sessions:       sessions,
	}
}

// Feed is the home page: open and negotiating listings of other users, or of everyone
// when nobody is signed in. session may be nil.
func (uc *ListingUseCase) Feed(ctx context.Context, session *entity.Session) (*ListingResult, error) {
	filter := entity.ListingFilter{
		ExcludeUserID: session.UserID(),
		ExcludeStatus: entity.ListingClosed,
	}
	return uc.read(ctx, session, filter)
}

// Search applies the user's filters. A signed-in user never sees their own listings.
func (uc *ListingUseCase) Search(ctx context.Context, session *entity.Session, filter entity.ListingFilter) (*ListingResult, error) {
	filter.UserID = 0
	if id := session.UserID(); id != 0 {
		filter.ExcludeUserID = id
	}
	if filter.Tipo != "" && !filter.Tipo.Valid() {
		filter.Tipo = ""
	}
	return uc.read(ctx, session, filter)
}

// Mine lists every listing of the signed-in user, closed ones included.
func (uc *ListingUseCase) Mine(ctx context.Context, session *entity.Session) (*ListingResult, error) {
	return uc.read(ctx, session, entity.ListingFilter{UserID: session.UserID()})
}

func (uc *ListingUseCase) read(ctx context.Context, session *entity.Session, filter entity.ListingFilter) (*ListingResult, error) {
	listings, err := uc.listingGateway.List(ctx, session.BearerToken(), filter)
	if err != nil {
		if errors.IsSessionExpired(err) && session != nil {
			return nil, uc.sessions.Guard(ctx, session.ID, err)
		}
		logger.Warn("Listing fetch failed: %v", err)
		return &ListingResult{
			Listings: []entity.Listing{},
			Notices:  []string{errors.MessageOf(err, listingsUnavailable)},
		}, nil
	}
	return &ListingResult{Listings: listings}, nil
}

func (uc *ListingUseCase) Create(ctx context.Context, session *entity.Session, input entity.ListingInput) (*entity.Listing, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if !input.Venda && !input.Troca {
		return nil, errors.Validation("Escolha venda, troca ou ambos.", nil)
	}

	listing, err := uc.listingGateway.Create(ctx, session.Token, input)
	if err != nil {
		return nil, uc.sessions.Guard(ctx, session.ID, err)
	}

	logger.Info("User %d created listing %d", session.User.ID, listing.ID)
	return listing, nil
}

func (uc *ListingUseCase) Update(ctx context.Context, session *entity.Session, id int64, patch entity.ListingPatch) (*entity.Listing, error) {
	if patch.Empty() {
		return nil, errors.BadRequest("Nenhuma alteração informada.", nil)
	}
	if err := validate(patch); err != nil {
		return nil, err
	}
	if patch.Venda != nil && patch.Troca != nil && !*patch.Venda && !*patch.Troca {
		return nil, errors.Validation("Escolha venda, troca ou ambos.", nil)
	}
	if err := uc.checkEditable(ctx, session, id); err != nil {
		return nil, err
	}

	listing, err := uc.listingGateway.Update(ctx, session.Token, id, patch)
	if err != nil {
		return nil, uc.sessions.Guard(ctx, session.ID, err)
	}
	return listing, nil
}

func (uc *ListingUseCase) Delete(ctx context.Context, session *entity.Session, id int64) error {
	if err := uc.checkEditable(ctx, session, id); err != nil {
		return err
	}

	if err := uc.listingGateway.Delete(ctx, session.Token, id); err != nil {
		return uc.sessions.Guard(ctx, session.ID, err)
	}

	logger.Info("User %d deleted listing %d", session.User.ID, id)
	return nil
}

// checkEditable allows changes only to the caller's own listings while still open.
func (uc *ListingUseCase) checkEditable(ctx context.Context, session *entity.Session, id int64) error {
	listings, err := uc.listingGateway.List(ctx, session.Token, entity.ListingFilter{UserID: session.User.ID})
	if err != nil {
		return uc.sessions.Guard(ctx, session.ID, err)
	}

	for _, listing := range listings {
		if listing.ID != id {
			continue
		}
		if listing.UserID == 0 {
			listing.UserID = session.User.ID
		}
		if !listing.OwnedBy(session.User.ID) {
			return errors.Forbidden("Apenas o dono pode alterar este anúncio.", nil)
		}
		if !listing.Editable(session.User.ID) {
			return errors.InvalidState("Apenas anúncios abertos podem ser alterados.")
		}
		return nil
	}
	return errors.NotFound("Anúncio", nil)
}
