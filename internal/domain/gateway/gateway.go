package gateway

import (
	"context"

	"trocagames/internal/domain/entity"
)

// Every call that needs identity takes the caller's bearer token. Implementations report
// a rejected token as errors.SessionExpired and any other rejection as errors.Upstream.

type AuthGateway interface {
	Login(ctx context.Context, credentials entity.Credentials) (*entity.User, string, error)
	Register(ctx context.Context, registration entity.Registration) error
}

type UserGateway interface {
	Get(ctx context.Context, token string, userID int64) (*entity.User, error)
	Update(ctx context.Context, token string, userID int64, patch entity.ProfilePatch) error
	UploadPhoto(ctx context.Context, token string, userID int64, photo entity.Upload, oldFotoURL string) (string, error)
}

type ListingGateway interface {
	// List is the only call that accepts an empty token.
	List(ctx context.Context, token string, filter entity.ListingFilter) ([]entity.Listing, error)
	Create(ctx context.Context, token string, input entity.ListingInput) (*entity.Listing, error)
	Update(ctx context.Context, token string, id int64, patch entity.ListingPatch) (*entity.Listing, error)
	Delete(ctx context.Context, token string, id int64) error
}

type ProposalGateway interface {
	Create(ctx context.Context, token string, input entity.ProposalInput) (*entity.Proposal, error)
	// ListSent returns proposals made by the caller (GET /proposta/user).
	ListSent(ctx context.Context, token string) ([]entity.Proposal, error)
	// ListReceived returns proposals on the caller's listings (GET /proposta/anuncio).
	ListReceived(ctx context.Context, token string) ([]entity.Proposal, error)
	Transition(ctx context.Context, token string, proposalID int64, action entity.ProposalAction) error
}

type RatingGateway interface {
	Create(ctx context.Context, token string, input entity.RatingInput) error
}
