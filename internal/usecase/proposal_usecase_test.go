package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/errors"
)

type tradeFixture struct {
	app      *testApp
	owner    *entity.Session
	proposer *entity.Session
	proposal *entity.Proposal
}

// newTradeFixture: user 1 owns open listing 10, user 2 has sent a pending proposal for it.
func newTradeFixture(t *testing.T) *tradeFixture {
	t.Helper()
	app := newTestApp()

	owner := app.market.addUser(1, "dono@troca.games", "", "t-owner")
	proposer := app.market.addUser(2, "ana@troca.games", "", "t-prop")
	app.market.addListing(entity.Listing{ID: 10, Titulo: "God of War", UserID: 1, Status: entity.ListingOpen, Troca: true})

	f := &tradeFixture{
		app:      app,
		owner:    app.signIn(owner, "t-owner"),
		proposer: app.signIn(proposer, "t-prop"),
	}

	valor := 150.0
	p, err := app.proposals.Create(context.Background(), f.proposer, entity.ProposalInput{AnuncioID: 10, Valor: &valor, Mensagem: "Troco pelo meu Zelda"})
	require.NoError(t, err)
	require.Equal(t, entity.ProposalPending, p.Status)
	f.proposal = p
	return f
}

func TestDashboardProjectsBothSides(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	ownerDash, err := f.app.proposals.Dashboard(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, ownerDash.Proposals, 1)
	assert.Equal(t, entity.DirectionReceived, ownerDash.Proposals[0].Direction)
	assert.Equal(t, entity.RoleOwner, ownerDash.Proposals[0].Role)
	assert.Equal(t, []entity.ProposalAction{entity.ActionAccept, entity.ActionRefuse}, ownerDash.Proposals[0].Actions)
	require.Len(t, ownerDash.Listings, 1)

	proposerDash, err := f.app.proposals.Dashboard(ctx, f.proposer)
	require.NoError(t, err)
	require.Len(t, proposerDash.Proposals, 1)
	assert.Equal(t, entity.DirectionSent, proposerDash.Proposals[0].Direction)
	assert.Equal(t, entity.RoleProposer, proposerDash.Proposals[0].Role)
	assert.Empty(t, proposerDash.Proposals[0].Actions)
	assert.Empty(t, proposerDash.Listings)
}

func TestAcceptFinishAndRateOnce(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	id := f.proposal.ID

	_, err := f.app.proposals.Accept(ctx, f.proposer, id)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.Equal(t, 0, f.app.market.count("transition"))

	res, err := f.app.proposals.Accept(ctx, f.owner, id)
	require.NoError(t, err)
	require.NotNil(t, res.Proposal)
	require.NotNil(t, res.Listing)
	assert.Equal(t, entity.ProposalNegotiating, res.Proposal.Status)
	assert.Equal(t, entity.ListingNegotiating, res.Listing.Status)
	assert.Equal(t, []entity.ProposalAction{entity.ActionRefuse, entity.ActionFinish}, res.Proposal.Actions)

	_, err = f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 5})
	assert.True(t, errors.Is(err, errors.CodeInvalidState), "only closed proposals can be rated")

	res, err = f.app.proposals.Finish(ctx, f.owner, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalClosed, res.Proposal.Status)
	assert.Equal(t, entity.ListingClosed, res.Listing.Status)
	assert.Empty(t, res.Proposal.Actions)

	_, err = f.app.ratings.Rate(ctx, f.owner, id, RateInput{Estrelas: 4})
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 6})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	dash, err := f.app.ratings.Dashboard(ctx, f.proposer)
	require.NoError(t, err)
	require.Len(t, dash.Proposals, 1)
	assert.True(t, dash.Proposals[0].CanRate)

	dash, err = f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 5, Comentario: "Ótima troca"})
	require.NoError(t, err)
	assert.False(t, dash.Proposals[0].CanRate)
	assert.Equal(t, 1, f.app.market.count("rate"))

	_, err = f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 1})
	assert.True(t, errors.Is(err, errors.CodeAlreadyRated))
	assert.Equal(t, 1, f.app.market.count("rate"), "a second rating must not reach the API")
}

func TestRateOnceWithoutEchoedRating(t *testing.T) {
	f := newTradeFixture(t)
	f.app.market.echoRatings = false
	ctx := context.Background()
	id := f.proposal.ID

	_, err := f.app.proposals.Accept(ctx, f.owner, id)
	require.NoError(t, err)
	_, err = f.app.proposals.Finish(ctx, f.owner, id)
	require.NoError(t, err)

	dash, err := f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 3})
	require.NoError(t, err)
	assert.False(t, dash.Proposals[0].CanRate)

	_, err = f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 3})
	assert.True(t, errors.Is(err, errors.CodeAlreadyRated))
	assert.Equal(t, 1, f.app.market.count("rate"))
}

func TestTransitionResultKeepsLocalRating(t *testing.T) {
	f := newTradeFixture(t)
	f.app.market.echoRatings = false
	ctx := context.Background()
	id := f.proposal.ID

	_, err := f.app.proposals.Accept(ctx, f.owner, id)
	require.NoError(t, err)
	_, err = f.app.proposals.Finish(ctx, f.owner, id)
	require.NoError(t, err)
	_, err = f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 4})
	require.NoError(t, err)

	// The proposer also sells something and acts on an offer for it.
	f.app.market.addListing(entity.Listing{ID: 20, Titulo: "Zelda", UserID: 2, Status: entity.ListingOpen, Troca: true})
	valor := 90.0
	offer, err := f.app.proposals.Create(ctx, f.owner, entity.ProposalInput{AnuncioID: 20, Valor: &valor, Mensagem: "Pago à vista"})
	require.NoError(t, err)

	res, err := f.app.ratings.Apply(ctx, f.proposer, offer.ID, entity.ActionAccept)
	require.NoError(t, err)
	require.NotNil(t, res.Proposal)
	assert.Equal(t, entity.ProposalNegotiating, res.Proposal.Status)

	rated, ok := res.Dashboard.proposal(id)
	require.True(t, ok)
	assert.Equal(t, entity.ProposalClosed, rated.Status)
	assert.False(t, rated.CanRate, "a proposal rated in this process stays unrateable after a transition")

	_, err = f.app.ratings.Rate(ctx, f.proposer, id, RateInput{Estrelas: 4})
	assert.True(t, errors.Is(err, errors.CodeAlreadyRated))
}

func TestRefuseWhileNegotiatingReopensListing(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	id := f.proposal.ID

	_, err := f.app.proposals.Accept(ctx, f.owner, id)
	require.NoError(t, err)

	res, err := f.app.proposals.Refuse(ctx, f.owner, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalRefused, res.Proposal.Status)
	assert.Equal(t, entity.ListingOpen, res.Listing.Status)

	_, err = f.app.proposals.Accept(ctx, f.owner, id)
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
	assert.Equal(t, 2, f.app.market.count("transition"))
}

func TestRefusePendingKeepsListingOpen(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	res, err := f.app.proposals.Refuse(ctx, f.owner, f.proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalRefused, res.Proposal.Status)
	assert.Equal(t, entity.ListingOpen, f.app.market.listingStatus(10))

	_, err = f.app.proposals.Finish(ctx, f.owner, f.proposal.ID)
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
}

func TestFinishRequiresNegotiation(t *testing.T) {
	f := newTradeFixture(t)

	_, err := f.app.proposals.Finish(context.Background(), f.owner, f.proposal.ID)
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
	assert.Equal(t, 0, f.app.market.count("transition"))
}

func TestUnknownProposal(t *testing.T) {
	f := newTradeFixture(t)

	_, err := f.app.proposals.Accept(context.Background(), f.owner, 9999)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestCreateProposalValidation(t *testing.T) {
	f := newTradeFixture(t)

	_, err := f.app.proposals.Create(context.Background(), f.proposer, entity.ProposalInput{AnuncioID: 10})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	negative := -1.0
	_, err = f.app.proposals.Create(context.Background(), f.proposer, entity.ProposalInput{AnuncioID: 10, Mensagem: "oi", Valor: &negative})
	assert.True(t, errors.Is(err, errors.CodeValidation))
	assert.Equal(t, 1, f.app.market.count("create_proposal"))
}

func TestDashboardFetchesAreIndependent(t *testing.T) {
	f := newTradeFixture(t)
	f.app.market.failSent = errors.Upstream(500, "Erro ao buscar propostas", nil)

	dash, err := f.app.proposals.Dashboard(context.Background(), f.owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"Erro ao buscar propostas"}, dash.Notices)
	require.Len(t, dash.Proposals, 1, "received proposals still load")
	assert.Len(t, dash.Listings, 1)
}

func TestExpiredTokenSignsOut(t *testing.T) {
	app := newTestApp()
	user := entity.User{ID: 42, Nome: "Ana"}
	// The market never issued this token, so every authenticated call is rejected.
	session := app.signIn(user, "expired")
	ch, cancel := app.notifications.Feed(session.ID).Subscribe()
	defer cancel()

	_, err := app.proposals.Dashboard(context.Background(), session)
	assert.True(t, errors.IsSessionExpired(err))

	_, err = app.sessions.Get(context.Background(), session.ID)
	assert.True(t, errors.IsSessionExpired(err))
	assert.False(t, app.repo.has(session.ID))

	_, open := <-ch
	assert.False(t, open, "the notification subscription is closed with the session")
}
