package usecase

import (
	"context"
	"sync"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/internal/domain/service"
	"trocagames/pkg/errors"
	"trocagames/pkg/logger"
)

type ratedKey struct {
	userID     int64
	proposalID int64
}

// RatingUseCase lets the proposer of a closed proposal rate it once.
type RatingUseCase struct {
	ratingGateway gateway.RatingGateway
	proposals     *ProposalUseCase
	sessions      *SessionStore

	// rated remembers submissions whose rating the API has not echoed back yet.
	mu    sync.Mutex
	rated map[ratedKey]bool
}

func NewRatingUseCase(ratingGateway gateway.RatingGateway, proposals *ProposalUseCase, sessions *SessionStore) *RatingUseCase {
	return &RatingUseCase{
		ratingGateway: ratingGateway,
		proposals:     proposals,
		sessions:      sessions,
		rated:         make(map[ratedKey]bool),
	}
}

type RateInput struct {
	Estrelas   int    `json:"estrelas"`
	Comentario string `json:"comentario"`
}

// Rate submits the rating and returns the refreshed dashboard.
func (uc *RatingUseCase) Rate(ctx context.Context, session *entity.Session, proposalID int64, input RateInput) (*Dashboard, error) {
	if input.Estrelas < 1 || input.Estrelas > 5 {
		return nil, errors.Validation("A avaliação deve ter de 1 a 5 estrelas.", nil)
	}

	key := ratedKey{userID: session.User.ID, proposalID: proposalID}

	view, _, err := uc.proposals.find(ctx, session, proposalID)
	if err != nil {
		return nil, err
	}

	if view.Rated() || uc.wasRated(key) {
		return nil, errors.AlreadyRated()
	}
	if !service.CanRate(*view) {
		if view.Role != entity.RoleProposer {
			return nil, errors.Forbidden("Apenas quem fez a proposta pode avaliar.", nil)
		}
		return nil, errors.InvalidState("Só é possível avaliar propostas fechadas.")
	}

	rating := entity.RatingInput{
		AnuncioID:  view.AnuncioID,
		PropostaID: view.ID,
		Estrelas:   input.Estrelas,
		Comentario: input.Comentario,
	}
	if err := validate(rating); err != nil {
		return nil, err
	}

	if err := uc.ratingGateway.Create(ctx, session.Token, rating); err != nil {
		return nil, uc.sessions.Guard(ctx, session.ID, err)
	}

	uc.mu.Lock()
	uc.rated[key] = true
	uc.mu.Unlock()

	logger.Info("User %d rated proposal %d with %d stars", session.User.ID, proposalID, input.Estrelas)

	dashboard, err := uc.proposals.Dashboard(ctx, session)
	if err != nil {
		return nil, err
	}
	uc.hideRated(session.User.ID, dashboard)
	return dashboard, nil
}

// Dashboard is ProposalUseCase.Dashboard with locally known ratings applied.
func (uc *RatingUseCase) Dashboard(ctx context.Context, session *entity.Session) (*Dashboard, error) {
	dashboard, err := uc.proposals.Dashboard(ctx, session)
	if err != nil {
		return nil, err
	}
	uc.hideRated(session.User.ID, dashboard)
	return dashboard, nil
}

// Apply is ProposalUseCase.Apply with locally known ratings applied to the re-read state.
func (uc *RatingUseCase) Apply(ctx context.Context, session *entity.Session, proposalID int64, action entity.ProposalAction) (*TransitionResult, error) {
	result, err := uc.proposals.Apply(ctx, session, proposalID, action)
	if err != nil {
		return nil, err
	}
	if result.Dashboard != nil {
		uc.hideRated(session.User.ID, result.Dashboard)
	}
	if result.Proposal != nil && uc.wasRated(ratedKey{userID: session.User.ID, proposalID: result.Proposal.ID}) {
		result.Proposal.CanRate = false
	}
	return result, nil
}

func (uc *RatingUseCase) wasRated(key ratedKey) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.rated[key]
}

func (uc *RatingUseCase) hideRated(userID int64, dashboard *Dashboard) {
	for i := range dashboard.Proposals {
		if uc.wasRated(ratedKey{userID: userID, proposalID: dashboard.Proposals[i].ID}) {
			dashboard.Proposals[i].CanRate = false
		}
	}
}
