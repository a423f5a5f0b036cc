package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/players"
	"github.com/padelclub/turnero/internal/turns"
)

// GetTurn returns the turn or NOT_FOUND.
func (e *Engine) GetTurn(ctx context.Context, turnID string) (*turns.Turn, error) {
	return e.getTurn(turnID)
}

// CountPlayers returns the number of occupied slots.
func (e *Engine) CountPlayers(ctx context.Context, turnID string) (int, error) {
	turn, err := e.getTurn(turnID)
	if err != nil {
		return 0, err
	}
	return turn.Occupied(), nil
}

// IsValidated reports whether the player is the organizer or was invited
// directly by the organizer and accepted.
func (e *Engine) IsValidated(ctx context.Context, turnID, playerID string) (bool, error) {
	turn, err := e.getTurn(turnID)
	if err != nil {
		return false, err
	}
	return e.isValidated(turn, playerID)
}

// CanInvite reports whether and how much the player may still invite.
func (e *Engine) CanInvite(ctx context.Context, turnID, playerID string) (*CanInviteReport, error) {
	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, err
	}
	if turn.IsTerminal() {
		return &CanInviteReport{Reason: "turn is " + string(turn.Status)}, nil
	}

	report := &CanInviteReport{}
	if playerID == turn.OrganizerID() {
		report.IsOrganizer = true
		report.IsValidated = true
		report.Remaining = -1
	} else {
		validated, err := e.isValidated(turn, playerID)
		if err != nil {
			return nil, err
		}
		if !validated {
			report.Reason = "player is neither the organizer nor validated"
			return report, nil
		}
		report.IsValidated = true
		sent, err := e.invites.CountValidatedSent(turnID, playerID)
		if err != nil {
			return nil, err
		}
		report.Remaining = 1 - sent
		if report.Remaining <= 0 {
			report.Remaining = 0
			report.Reason = "invitation already used for this turn"
			return report, nil
		}
	}

	pending, err := e.invites.CountPendingByTurn(turnID)
	if err != nil {
		return nil, err
	}
	if turn.Occupied()+pending >= turns.SlotCount {
		report.Reason = "turn has no free capacity"
		return report, nil
	}
	report.CanInvite = true
	return report, nil
}

// InvitationsForTurn lists the turn's visible invitations. Declined and
// cancelled rows are hidden and orphaned ACCEPTED rows are repaired.
func (e *Engine) InvitationsForTurn(ctx context.Context, turnID string) ([]*invites.Invitation, error) {
	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, err
	}
	list, err := e.invites.ListByTurn(turnID)
	if err != nil {
		return nil, err
	}
	return e.visible(list, map[string]*turns.Turn{turnID: turn}), nil
}

// ReceivedInvitations lists the player's visible incoming invitations.
func (e *Engine) ReceivedInvitations(ctx context.Context, playerID string) ([]*invites.Invitation, error) {
	list, err := e.invites.ListReceived(playerID)
	if err != nil {
		return nil, err
	}
	return e.visible(list, nil), nil
}

// PendingInvitationsFor lists the invitations still awaiting the
// player's answer. External requests are excluded until approved.
func (e *Engine) PendingInvitationsFor(ctx context.Context, playerID string) ([]*invites.Invitation, error) {
	list, err := e.invites.ListReceived(playerID)
	if err != nil {
		return nil, err
	}
	var out []*invites.Invitation
	for _, inv := range list {
		if inv.Status == invites.StatusPending && !inv.IsExternalRequest {
			out = append(out, inv)
		}
	}
	return out, nil
}

// SentInvitations lists the player's visible outgoing invitations.
func (e *Engine) SentInvitations(ctx context.Context, playerID string) ([]*invites.Invitation, error) {
	list, err := e.invites.ListSent(playerID)
	if err != nil {
		return nil, err
	}
	return e.visible(list, nil), nil
}

// ExternalRequests lists the turn's pending external join requests.
// Only the organizer may see them.
func (e *Engine) ExternalRequests(ctx context.Context, turnID, actorID string) ([]*invites.Invitation, error) {
	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, err
	}
	if actorID != turn.OrganizerID() {
		return nil, newError(CodePermissionDenied, "only the organizer may list join requests")
	}
	list, err := e.invites.ListByTurn(turnID)
	if err != nil {
		return nil, err
	}
	var out []*invites.Invitation
	for _, inv := range list {
		if inv.IsExternalRequest && inv.Status == invites.StatusPending {
			out = append(out, inv)
		}
	}
	return out, nil
}

// SearchPlayers finds candidates to invite: players matching the query
// who are neither in the turn nor already holding an active invitation.
func (e *Engine) SearchPlayers(ctx context.Context, turnID, query string) ([]*players.Player, error) {
	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, err
	}
	exclude := turn.PlayerIDs()
	list, err := e.invites.ListByTurn(turnID)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		if inv.Status == invites.StatusPending || inv.Status == invites.StatusAccepted {
			exclude = append(exclude, inv.InvitedPlayerID)
		}
	}
	return e.players.Search(query, exclude)
}

// visible filters a list down to rows a player should see, repairing
// stale ACCEPTED records along the way: an ACCEPTED invitation whose
// player no longer occupies a slot is retro-cancelled. The repair is
// best effort; a failed write only logs.
func (e *Engine) visible(list []*invites.Invitation, known map[string]*turns.Turn) []*invites.Invitation {
	if known == nil {
		known = make(map[string]*turns.Turn)
	}
	var out []*invites.Invitation
	for _, inv := range list {
		if inv.Status == invites.StatusDeclined || inv.Status == invites.StatusCancelled {
			continue
		}
		if inv.Status == invites.StatusAccepted {
			turn, ok := known[inv.TurnID]
			if !ok {
				t, err := e.turns.Get(inv.TurnID)
				if err != nil {
					log.Error("Failed to load turn for invitation cleanup", "turnID", inv.TurnID, "error", err)
					out = append(out, inv)
					continue
				}
				turn = t
				known[inv.TurnID] = turn
			}
			if turn == nil || !turn.HasPlayer(inv.InvitedPlayerID) {
				log.Warn("Retro-cancelling orphaned accepted invitation", "invitationID", inv.ID, "turnID", inv.TurnID, "playerID", inv.InvitedPlayerID)
				if err := e.invites.UpdateStatus(inv.ID, invites.StatusCancelled); err != nil {
					log.Error("Failed to retro-cancel invitation", "invitationID", inv.ID, "error", err)
				}
				continue
			}
		}
		out = append(out, inv)
	}
	return out
}
