package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/turns"
)

// CancelCompleteTurn cancels the whole turn: clears every slot, cancels
// every PENDING and ACCEPTED invitation and stores the organizer's
// message. Only the organizer may do this. Cancelling an already
// cancelled turn fails with INVALID_STATE and writes nothing.
func (e *Engine) CancelCompleteTurn(ctx context.Context, turnID, organizerID, message string) ([]events.Event, error) {
	unlock := e.lock(turnID)
	defer unlock()

	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, err
	}
	if turn.Status == turns.StatusCancelled {
		return nil, newError(CodeInvalidState, "turn %s is already cancelled", turnID)
	}
	if turn.IsTerminal() {
		return nil, newError(CodeInvalidState, "turn %s is %s", turnID, turn.Status)
	}
	if organizerID != turn.OrganizerID() {
		return nil, newError(CodePermissionDenied, "only the organizer may cancel turn %s", turnID)
	}

	displaced := make([]string, 0, turns.SlotCount)
	for _, id := range turn.PlayerIDs() {
		if id != organizerID {
			displaced = append(displaced, id)
		}
	}

	turn.Slots = [turns.SlotCount]turns.Slot{}
	turn.Status = turns.StatusCancelled
	turn.CancellationMessage = message
	if err := e.turns.Update(turn); err != nil {
		return nil, err
	}

	list, err := e.invites.ListByTurn(turnID)
	if err != nil {
		return nil, err
	}
	var pendingInvitees []string
	for _, inv := range list {
		switch inv.Status {
		case invites.StatusPending:
			if err := e.invites.UpdateStatus(inv.ID, invites.StatusCancelled); err != nil {
				return nil, err
			}
			pendingInvitees = append(pendingInvitees, inv.InvitedPlayerID)
		case invites.StatusAccepted:
			if err := e.invites.UpdateStatus(inv.ID, invites.StatusCancelled); err != nil {
				return nil, err
			}
		}
	}
	e.metrics.IncTurnsCancelled()
	log.Info("Turn cancelled", "turnID", turnID, "organizerID", organizerID, "displaced", len(displaced), "pendingInvitees", len(pendingInvitees))

	body := "El turno del " + turn.Date + " a las " + turn.StartTime + " fue cancelado."
	if message != "" {
		body += " Mensaje: " + message
	}

	var evts []events.Event
	for _, id := range displaced {
		evts = append(evts, events.Event{
			Type: events.TypePlayerDisplaced, TurnID: turnID, RecipientID: id,
			ActorID: organizerID, Title: "Turno cancelado", Body: body,
		})
	}
	for _, id := range pendingInvitees {
		evts = append(evts, events.Event{
			Type: events.TypeInvitationCancelled, TurnID: turnID, RecipientID: id,
			ActorID: organizerID, Title: "Invitación cancelada", Body: body,
		})
	}
	evts = append(evts, events.Event{
		Type: events.TypeTurnCancelled, TurnID: turnID, RecipientID: organizerID,
		ActorID: organizerID, Title: "Turno cancelado", Body: "Cancelaste el turno del " + turn.Date + ".",
	})
	if admin, err := e.players.ClubAdmin(e.clubID); err == nil && admin != nil && admin.ID != organizerID {
		evts = append(evts, events.Event{
			Type: events.TypeTurnCancelled, TurnID: turnID, RecipientID: admin.ID,
			ActorID: organizerID, Title: "Turno cancelado", Body: body,
		})
	}
	return evts, nil
}

// CancelIndividualPosition removes one player from the turn. The last
// player leaving cancels the turn; otherwise the turn drops back to
// PENDING, even from READY_TO_PLAY. The departing player's ACCEPTED
// invitations are retro-cancelled so no orphan records survive.
func (e *Engine) CancelIndividualPosition(ctx context.Context, turnID, playerID, message string) ([]events.Event, error) {
	unlock := e.lock(turnID)
	defer unlock()

	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, err
	}
	if turn.IsTerminal() {
		return nil, newError(CodeInvalidState, "turn %s is %s", turnID, turn.Status)
	}

	slot := turn.SlotOf(playerID)
	if slot == -1 {
		return nil, newError(CodeNotFound, "player %s does not occupy a slot in turn %s", playerID, turnID)
	}
	if slot == 0 && turn.Occupied() > 1 {
		return nil, newError(CodeInvalidState, "the organizer must cancel the whole turn while other players remain")
	}

	organizerID := turn.OrganizerID()
	turn.Slots[slot] = turns.Slot{}
	remaining := turn.Occupied()

	if message != "" {
		turn.CancellationMessage = message
	}
	if remaining == 0 {
		turn.Status = turns.StatusCancelled
	} else {
		turn.Status = turns.StatusPending
	}
	if err := e.turns.Update(turn); err != nil {
		return nil, err
	}

	list, err := e.invites.ListByTurn(turnID)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		cancel := (inv.Status == invites.StatusAccepted && inv.InvitedPlayerID == playerID) ||
			(remaining == 0 && inv.Status == invites.StatusPending)
		if cancel {
			if err := e.invites.UpdateStatus(inv.ID, invites.StatusCancelled); err != nil {
				return nil, err
			}
		}
	}
	if remaining == 0 {
		e.metrics.IncTurnsCancelled()
	}
	log.Info("Position cancelled", "turnID", turnID, "playerID", playerID, "remaining", remaining, "status", turn.Status)

	var evts []events.Event
	if remaining > 0 && playerID != organizerID {
		body := "Un jugador dejó el turno del " + turn.Date + " a las " + turn.StartTime + "."
		if message != "" {
			body += " Mensaje: " + message
		}
		for _, id := range turn.PlayerIDs() {
			evts = append(evts, events.Event{
				Type: events.TypePositionCancelled, TurnID: turnID, RecipientID: id,
				ActorID: playerID, Title: "Un jugador se bajó", Body: body,
			})
		}
	}
	evts = append(evts, events.Event{
		Type: events.TypePositionCancelled, TurnID: turnID, RecipientID: playerID,
		ActorID: playerID, Title: "Dejaste el turno", Body: "Ya no estás en el turno del " + turn.Date + ".",
	})
	return evts, nil
}
