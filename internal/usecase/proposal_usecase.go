package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/internal/domain/service"
	"trocagames/pkg/errors"
	"trocagames/pkg/logger"
)

const (
	sentUnavailable     = "Não foi possível carregar as propostas enviadas."
	receivedUnavailable = "Não foi possível carregar as propostas recebidas."
)

// Dashboard is everything the signed-in user acts on: their proposals in both
// directions and their own listings.
type Dashboard struct {
	Proposals []entity.ProposalView `json:"propostas"`
	Listings  []entity.Listing      `json:"anuncios"`
	Notices   []string              `json:"notices,omitempty"`
}

func (d *Dashboard) proposal(id int64) (*entity.ProposalView, bool) {
	for i := range d.Proposals {
		if d.Proposals[i].ID == id {
			return &d.Proposals[i], true
		}
	}
	return nil, false
}

func (d *Dashboard) listing(id int64) (*entity.Listing, bool) {
	for i := range d.Listings {
		if d.Listings[i].ID == id {
			return &d.Listings[i], true
		}
	}
	return nil, false
}

// TransitionResult is the state re-read from the API after an action.
type TransitionResult struct {
	Proposal  *entity.ProposalView `json:"proposta,omitempty"`
	Listing   *entity.Listing      `json:"anuncio,omitempty"`
	Dashboard *Dashboard           `json:"dashboard"`
}

type ProposalUseCase struct {
	proposalGateway gateway.ProposalGateway
	listingGateway  gateway.ListingGateway
	sessions        *SessionStore
}

func NewProposalUseCase(proposalGateway gateway.ProposalGateway, listingGateway gateway.ListingGateway, sessions *SessionStore) *ProposalUseCase {
	return &ProposalUseCase{
		proposalGateway: proposalGateway,
		listingGateway:  listingGateway,
		sessions:        sessions,
	}
}

func (uc *ProposalUseCase) Create(ctx context.Context, session *entity.Session, input entity.ProposalInput) (*entity.Proposal, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	proposal, err := uc.proposalGateway.Create(ctx, session.Token, input)
	if err != nil {
		return nil, uc.sessions.Guard(ctx, session.ID, err)
	}

	logger.Info("User %d sent a proposal for listing %d", session.User.ID, input.AnuncioID)
	return proposal, nil
}

// Dashboard fetches sent proposals, received proposals and the user's listings at the
// same time. A failed fetch leaves its part empty and adds a notice; only an expired
// session fails the whole call.
func (uc *ProposalUseCase) Dashboard(ctx context.Context, session *entity.Session) (*Dashboard, error) {
	var (
		sent, received             []entity.Proposal
		listings                   []entity.Listing
		sentErr, receivedErr, lErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		sent, sentErr = uc.proposalGateway.ListSent(ctx, session.Token)
		return nil
	})
	g.Go(func() error {
		received, receivedErr = uc.proposalGateway.ListReceived(ctx, session.Token)
		return nil
	})
	g.Go(func() error {
		listings, lErr = uc.listingGateway.List(ctx, session.Token, entity.ListingFilter{UserID: session.User.ID})
		return nil
	})
	g.Wait()

	dashboard := &Dashboard{}
	for _, fetch := range []struct {
		err      error
		fallback string
	}{
		{sentErr, sentUnavailable},
		{receivedErr, receivedUnavailable},
		{lErr, listingsUnavailable},
	} {
		if fetch.err == nil {
			continue
		}
		if errors.IsSessionExpired(fetch.err) {
			return nil, uc.sessions.Guard(ctx, session.ID, fetch.err)
		}
		logger.Warn("Dashboard fetch failed for user %d: %v", session.User.ID, fetch.err)
		dashboard.Notices = append(dashboard.Notices, errors.MessageOf(fetch.err, fetch.fallback))
	}

	if listings == nil {
		listings = []entity.Listing{}
	}
	dashboard.Listings = listings

	own := make(map[int64]entity.Listing, len(listings))
	for _, l := range listings {
		if l.UserID == 0 {
			l.UserID = session.User.ID
		}
		own[l.ID] = l
	}
	attachListings(sent, own)
	attachListings(received, own)

	dashboard.Proposals = service.MergeProposals(sent, received, session.User.ID)
	return dashboard, nil
}

// attachListings fills in the listing of proposals whose record came without one.
func attachListings(proposals []entity.Proposal, own map[int64]entity.Listing) {
	for i := range proposals {
		if proposals[i].Anuncio != nil {
			continue
		}
		if l, ok := own[proposals[i].AnuncioID]; ok {
			listing := l
			proposals[i].Anuncio = &listing
		}
	}
}

func (uc *ProposalUseCase) Accept(ctx context.Context, session *entity.Session, proposalID int64) (*TransitionResult, error) {
	return uc.transition(ctx, session, proposalID, entity.ActionAccept)
}

func (uc *ProposalUseCase) Refuse(ctx context.Context, session *entity.Session, proposalID int64) (*TransitionResult, error) {
	return uc.transition(ctx, session, proposalID, entity.ActionRefuse)
}

func (uc *ProposalUseCase) Finish(ctx context.Context, session *entity.Session, proposalID int64) (*TransitionResult, error) {
	return uc.transition(ctx, session, proposalID, entity.ActionFinish)
}

// Apply dispatches an action by name.
func (uc *ProposalUseCase) Apply(ctx context.Context, session *entity.Session, proposalID int64, action entity.ProposalAction) (*TransitionResult, error) {
	return uc.transition(ctx, session, proposalID, action)
}

// find locates a proposal in a freshly fetched dashboard.
func (uc *ProposalUseCase) find(ctx context.Context, session *entity.Session, proposalID int64) (*entity.ProposalView, *Dashboard, error) {
	dashboard, err := uc.Dashboard(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	view, ok := dashboard.proposal(proposalID)
	if !ok {
		if len(dashboard.Notices) > 0 {
			return nil, nil, errors.Upstream(0, dashboard.Notices[0], nil)
		}
		return nil, nil, errors.NotFound("Proposta", nil)
	}
	return view, dashboard, nil
}

func (uc *ProposalUseCase) transition(ctx context.Context, session *entity.Session, proposalID int64, action entity.ProposalAction) (*TransitionResult, error) {
	view, before, err := uc.find(ctx, session, proposalID)
	if err != nil {
		return nil, err
	}

	if err := service.CheckAction(*view, action); err != nil {
		return nil, err
	}

	expected, _ := service.NextStatus(view.Status, action)
	var expectedListing entity.ListingStatus
	if listing, ok := before.listing(view.AnuncioID); ok {
		expectedListing = service.ListingAfter(listing.Status, view.Status, action)
	} else if view.Anuncio != nil {
		expectedListing = service.ListingAfter(view.Anuncio.Status, view.Status, action)
	}

	if err := uc.proposalGateway.Transition(ctx, session.Token, proposalID, action); err != nil {
		return nil, uc.sessions.Guard(ctx, session.ID, err)
	}
	logger.Info("User %d applied %s to proposal %d", session.User.ID, action, proposalID)

	after, err := uc.Dashboard(ctx, session)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Dashboard: after}

	if updated, ok := after.proposal(proposalID); ok {
		result.Proposal = updated
		if updated.Status != expected {
			logger.Warn("Proposal %d is %s after %s, expected %s", proposalID, updated.Status, action, expected)
		}
	}

	if listing, ok := after.listing(view.AnuncioID); ok {
		result.Listing = listing
		if expectedListing != "" && listing.Status != expectedListing {
			logger.Warn("Listing %d is %s after %s on proposal %d, expected %s",
				listing.ID, listing.Status, action, proposalID, expectedListing)
		}
	}

	return result, nil
}
