package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/rules"
	"github.com/padelclub/turnero/internal/turns"
)

// Respond answers a pending invitation. Accepting re-runs every admission
// check under the turn's lock against current state: the pre-checks at
// invitation time guarantee nothing once other players have moved.
func (e *Engine) Respond(ctx context.Context, params RespondParams) (*invites.Invitation, []events.Event, error) {
	inv, err := e.getInvitation(params.InvitationID)
	if err != nil {
		return nil, nil, err
	}
	if inv.InvitedPlayerID != params.PlayerID {
		return nil, nil, newError(CodePermissionDenied, "invitation %s is not addressed to player %s", params.InvitationID, params.PlayerID)
	}

	unlock := e.lock(inv.TurnID)
	defer unlock()

	inv, turn, err := e.reloadInvitation(params.InvitationID)
	if err != nil {
		return nil, nil, err
	}
	if inv.Status != invites.StatusPending {
		return nil, nil, newError(CodeInvalidState, "invitation %s is %s", inv.ID, inv.Status)
	}
	if inv.IsExternalRequest {
		return nil, nil, newError(CodeInvalidState, "external request %s needs organizer approval first", inv.ID)
	}
	if turn.IsTerminal() {
		return nil, nil, newError(CodeInvalidState, "turn %s is %s", turn.ID, turn.Status)
	}

	switch params.Decision {
	case DecisionDecline:
		return e.decline(inv, turn)
	case DecisionAccept:
		return e.accept(inv, turn, params)
	default:
		return nil, nil, newError(CodeConstraintViolation, "unknown decision %q", params.Decision)
	}
}

func (e *Engine) decline(inv *invites.Invitation, turn *turns.Turn) (*invites.Invitation, []events.Event, error) {
	if err := e.invites.UpdateStatus(inv.ID, invites.StatusDeclined); err != nil {
		return nil, nil, err
	}
	inv.Status = invites.StatusDeclined
	e.metrics.IncInvitationsDeclined()
	log.Info("Invitation declined", "turnID", turn.ID, "invitationID", inv.ID, "playerID", inv.InvitedPlayerID)

	evts := []events.Event{{
		Type:        events.TypeInvitationDeclined,
		TurnID:      turn.ID,
		RecipientID: inv.InviterID,
		ActorID:     inv.InvitedPlayerID,
		Title:       "Invitación rechazada",
		Body:        "Un jugador rechazó tu invitación al turno del " + turn.Date + ".",
	}}
	return inv, evts, nil
}

func (e *Engine) accept(inv *invites.Invitation, turn *turns.Turn, params RespondParams) (*invites.Invitation, []events.Event, error) {
	player, err := e.getPlayer(inv.InvitedPlayerID)
	if err != nil {
		return nil, nil, err
	}

	slot := turn.FirstOpenSlot()
	if slot == -1 {
		e.metrics.IncConstraintRejections()
		return nil, nil, newError(CodeCapacityExceeded, "turn %s is already full", turn.ID)
	}
	if turn.HasPlayer(player.ID) {
		return nil, nil, newError(CodeDuplicateOperation, "player %s is already in turn %s", player.ID, turn.ID)
	}
	if params.CourtPosition < 1 || params.CourtPosition > turns.SlotCount {
		return nil, nil, newError(CodeConstraintViolation, "invalid court position %d", params.CourtPosition)
	}

	clash, err := e.scheduleClash(turn, player.ID)
	if err != nil {
		return nil, nil, err
	}
	if clash {
		e.metrics.IncConstraintRejections()
		return nil, nil, newError(CodeConstraintViolation, "player %s already plays at %s %s", player.ID, turn.Date, turn.StartTime)
	}

	// Own pending invitation must not count against the gender quota.
	if err := e.checkJoin(turn, player, inv.ID); err != nil {
		e.metrics.IncConstraintRejections()
		return nil, nil, err
	}
	genders, err := e.sideGenders(turn, params.Side)
	if err != nil {
		return nil, nil, err
	}
	if err := rules.CheckSide(params.Side, genders, player.Gender, turn.IsMixedMatch); err != nil {
		e.metrics.IncConstraintRejections()
		return nil, nil, newError(CodeConstraintViolation, "%s", err.Error())
	}

	turn.Slots[slot] = turns.Slot{
		PlayerID:      player.ID,
		Side:          params.Side,
		CourtPosition: params.CourtPosition,
	}
	if turn.Occupied() == turns.SlotCount {
		turn.Status = turns.StatusReadyToPlay
	}
	if err := e.turns.Update(turn); err != nil {
		return nil, nil, err
	}
	if err := e.invites.UpdateStatus(inv.ID, invites.StatusAccepted); err != nil {
		return nil, nil, err
	}
	inv.Status = invites.StatusAccepted
	e.metrics.IncInvitationsAccepted()
	log.Info("Invitation accepted", "turnID", turn.ID, "invitationID", inv.ID, "playerID", player.ID, "slot", slot, "status", turn.Status)

	evts := []events.Event{{
		Type:        events.TypeInvitationAccepted,
		TurnID:      turn.ID,
		RecipientID: inv.InviterID,
		ActorID:     player.ID,
		Title:       "Invitación aceptada",
		Body:        player.Name + " se sumó al turno del " + turn.Date + ".",
	}}
	if turn.Status == turns.StatusReadyToPlay {
		for _, id := range turn.PlayerIDs() {
			evts = append(evts, events.Event{
				Type:        events.TypeTurnReady,
				TurnID:      turn.ID,
				RecipientID: id,
				ActorID:     player.ID,
				Title:       "¡Turno completo!",
				Body:        "El turno del " + turn.Date + " a las " + turn.StartTime + " ya tiene los 4 jugadores.",
			})
		}
	}
	return inv, evts, nil
}
