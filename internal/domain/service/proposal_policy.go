package service

import (
	"fmt"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/errors"
)

type transition struct {
	from   entity.ProposalStatus
	action entity.ProposalAction
}

// proposalTransitions is the whole lifecycle. Anything missing here is rejected.
var proposalTransitions = map[transition]entity.ProposalStatus{
	{entity.ProposalPending, entity.ActionAccept}:     entity.ProposalNegotiating,
	{entity.ProposalPending, entity.ActionRefuse}:     entity.ProposalRefused,
	{entity.ProposalNegotiating, entity.ActionFinish}: entity.ProposalClosed,
	{entity.ProposalNegotiating, entity.ActionRefuse}: entity.ProposalRefused,
}

var actionOrder = []entity.ProposalAction{entity.ActionAccept, entity.ActionRefuse, entity.ActionFinish}

var actionVerbs = map[entity.ProposalAction]string{
	entity.ActionAccept: "aceitar",
	entity.ActionRefuse: "recusar",
	entity.ActionFinish: "finalizar",
}

// NextStatus returns the status a proposal reaches after action, if the move exists.
func NextStatus(from entity.ProposalStatus, action entity.ProposalAction) (entity.ProposalStatus, bool) {
	next, ok := proposalTransitions[transition{from, action}]
	return next, ok
}

// ListingAfter returns the listing status expected once action has been applied to a
// proposal that was in status from.
func ListingAfter(current entity.ListingStatus, from entity.ProposalStatus, action entity.ProposalAction) entity.ListingStatus {
	if _, ok := NextStatus(from, action); !ok {
		return current
	}

	switch action {
	case entity.ActionAccept:
		return entity.ListingNegotiating
	case entity.ActionFinish:
		return entity.ListingClosed
	case entity.ActionRefuse:
		if from == entity.ProposalNegotiating {
			return entity.ListingOpen
		}
	}
	return current
}

// AllowedActions lists what role may do with a proposal in status. Only the listing
// owner ever acts on a proposal.
func AllowedActions(role entity.Role, status entity.ProposalStatus) []entity.ProposalAction {
	actions := []entity.ProposalAction{}
	if role != entity.RoleOwner {
		return actions
	}
	for _, action := range actionOrder {
		if _, ok := NextStatus(status, action); ok {
			actions = append(actions, action)
		}
	}
	return actions
}

// CheckAction rejects an action before it reaches the server.
func CheckAction(view entity.ProposalView, action entity.ProposalAction) error {
	verb, known := actionVerbs[action]
	if !known {
		return errors.BadRequest(fmt.Sprintf("Ação desconhecida: %s", action), nil)
	}
	if view.Role != entity.RoleOwner {
		return errors.Forbidden(fmt.Sprintf("Apenas o dono do anúncio pode %s a proposta.", verb), nil)
	}
	if _, ok := NextStatus(view.Status, action); !ok {
		return errors.InvalidState(fmt.Sprintf("Não é possível %s uma proposta com status %s.", verb, view.Status))
	}
	return nil
}

// DirectionFor derives sent/received for viewer. The proposer id wins; when the record
// does not carry one, the endpoint it came from decides.
func DirectionFor(p entity.Proposal, viewerID int64, source entity.Direction) entity.Direction {
	if p.UserID != 0 && viewerID != 0 {
		if p.UserID == viewerID {
			return entity.DirectionSent
		}
		return entity.DirectionReceived
	}
	return source
}

func RoleFor(p entity.Proposal, viewerID int64, direction entity.Direction) entity.Role {
	if p.Anuncio != nil && p.Anuncio.UserID != 0 && viewerID != 0 {
		if p.Anuncio.UserID == viewerID {
			return entity.RoleOwner
		}
		return entity.RoleProposer
	}
	if direction == entity.DirectionReceived {
		return entity.RoleOwner
	}
	return entity.RoleProposer
}

// CanRate: the proposer of a closed proposal that has no rating yet.
func CanRate(view entity.ProposalView) bool {
	return view.Role == entity.RoleProposer && view.Status == entity.ProposalClosed && !view.Rated()
}

func Project(p entity.Proposal, viewerID int64, source entity.Direction) entity.ProposalView {
	direction := DirectionFor(p, viewerID, source)
	view := entity.ProposalView{
		Proposal:  p,
		Direction: direction,
		Role:      RoleFor(p, viewerID, direction),
	}
	view.Actions = AllowedActions(view.Role, view.Status)
	view.CanRate = CanRate(view)
	return view
}

// MergeProposals unions the sent and received lists for viewer, keeping the first copy
// of any id that shows up in both.
func MergeProposals(sent, received []entity.Proposal, viewerID int64) []entity.ProposalView {
	seen := make(map[int64]bool, len(sent)+len(received))
	views := make([]entity.ProposalView, 0, len(sent)+len(received))

	add := func(list []entity.Proposal, source entity.Direction) {
		for _, p := range list {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			views = append(views, Project(p, viewerID, source))
		}
	}

	add(sent, entity.DirectionSent)
	add(received, entity.DirectionReceived)
	return views
}
