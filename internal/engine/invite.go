package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/turns"
)

// CreateInvitations invites one or more players to a turn. The organizer
// may invite freely within capacity; a validated player may send a single
// invitation to a single target, once per turn. Per-target failures are
// collected as rejections; the call errors only when nothing was created.
func (e *Engine) CreateInvitations(ctx context.Context, turnID, inviterID string, targetIDs []string, message string) (*CreateResult, []events.Event, error) {
	if len(targetIDs) == 0 {
		return nil, nil, newError(CodeConstraintViolation, "no invitation targets given")
	}

	unlock := e.lock(turnID)
	defer unlock()

	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, nil, err
	}
	if turn.IsTerminal() {
		return nil, nil, newError(CodeInvalidState, "turn %s is %s", turnID, turn.Status)
	}

	isOrganizer := inviterID == turn.OrganizerID()
	if !isOrganizer {
		validated, err := e.isValidated(turn, inviterID)
		if err != nil {
			return nil, nil, err
		}
		if !validated {
			return nil, nil, newError(CodePermissionDenied, "player %s may not invite to turn %s", inviterID, turnID)
		}
		if len(targetIDs) > 1 {
			return nil, nil, newError(CodeConstraintViolation, "a validated player may invite a single target")
		}
		sent, err := e.invites.CountValidatedSent(turnID, inviterID)
		if err != nil {
			return nil, nil, err
		}
		if sent >= 1 {
			return nil, nil, newError(CodeConstraintViolation, "player %s already used their invitation for turn %s", inviterID, turnID)
		}
	}

	pending, err := e.invites.CountPendingByTurn(turnID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkCapacity(turn.Occupied(), pending, len(targetIDs)); err != nil {
		e.metrics.IncConstraintRejections()
		return nil, nil, err
	}

	result := &CreateResult{}
	var evts []events.Event
	for _, targetID := range targetIDs {
		if rej := e.vetTarget(turn, targetID); rej != nil {
			e.metrics.IncConstraintRejections()
			result.Rejections = append(result.Rejections, *rej)
			continue
		}

		inv := &invites.Invitation{
			ID:              newInvitationID(),
			TurnID:          turnID,
			InviterID:       inviterID,
			InvitedPlayerID: targetID,
			Status:          invites.StatusPending,
			Message:         message,
			// The flag marks invitations sent by validated non-organizers,
			// charging them against the single-invitation allowance.
			IsValidatedInvitation: !isOrganizer,
		}
		if err := e.invites.Create(inv); err != nil {
			return nil, nil, err
		}
		e.metrics.IncInvitationsCreated()
		result.Created = append(result.Created, inv)
		evts = append(evts, events.Event{
			Type:        events.TypeInvitationCreated,
			TurnID:      turnID,
			RecipientID: targetID,
			ActorID:     inviterID,
			Title:       "Nueva invitación",
			Body:        "Te invitaron al turno del " + turn.Date + " a las " + turn.StartTime + ".",
			Data:        map[string]string{"invitation_id": inv.ID},
		})
	}

	if len(result.Created) == 0 {
		return result, nil, newError(CodeConstraintViolation, "no invitations could be created for turn %s", turnID)
	}
	log.Info("Invitations created", "turnID", turnID, "inviterID", inviterID, "created", len(result.Created), "rejected", len(result.Rejections))
	return result, evts, nil
}

// vetTarget runs the per-target admission checks. The gender balance is
// re-tallied per target, so earlier creations in the same batch count.
func (e *Engine) vetTarget(turn *turns.Turn, targetID string) *Rejection {
	target, err := e.players.Get(targetID)
	if err != nil || target == nil {
		return &Rejection{PlayerID: targetID, Code: CodeNotFound, Reason: "player not found"}
	}
	if turn.HasPlayer(targetID) {
		return &Rejection{PlayerID: targetID, Code: CodeDuplicateOperation, Reason: "player is already in the turn"}
	}
	active, err := e.invites.FindActive(turn.ID, targetID)
	if err != nil {
		return &Rejection{PlayerID: targetID, Code: CodeConstraintViolation, Reason: err.Error()}
	}
	if active != nil {
		return &Rejection{PlayerID: targetID, Code: CodeDuplicateOperation, Reason: "player already has an active invitation"}
	}
	if err := e.checkJoin(turn, target, ""); err != nil {
		return &Rejection{PlayerID: targetID, Code: CodeOf(err), Reason: err.Error()}
	}
	return nil
}

// RequestToJoin records an outsider's wish to join a turn as a PENDING
// external request addressed to the organizer.
func (e *Engine) RequestToJoin(ctx context.Context, turnID, playerID, message string) (*invites.Invitation, []events.Event, error) {
	player, err := e.getPlayer(playerID)
	if err != nil {
		return nil, nil, err
	}

	unlock := e.lock(turnID)
	defer unlock()

	turn, err := e.getTurn(turnID)
	if err != nil {
		return nil, nil, err
	}
	if turn.IsTerminal() {
		return nil, nil, newError(CodeInvalidState, "turn %s is %s", turnID, turn.Status)
	}
	if turn.HasPlayer(playerID) {
		return nil, nil, newError(CodeDuplicateOperation, "player %s is already in turn %s", playerID, turnID)
	}
	active, err := e.invites.FindActive(turnID, playerID)
	if err != nil {
		return nil, nil, err
	}
	if active != nil {
		return nil, nil, newError(CodeDuplicateOperation, "player %s already has an active invitation for turn %s", playerID, turnID)
	}

	pending, err := e.invites.CountPendingByTurn(turnID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkCapacity(turn.Occupied(), pending, 1); err != nil {
		e.metrics.IncConstraintRejections()
		return nil, nil, err
	}
	if err := e.checkJoin(turn, player, ""); err != nil {
		e.metrics.IncConstraintRejections()
		return nil, nil, err
	}

	inv := &invites.Invitation{
		ID:                newInvitationID(),
		TurnID:            turnID,
		InviterID:         turn.OrganizerID(),
		InvitedPlayerID:   playerID,
		Status:            invites.StatusPending,
		Message:           message,
		IsExternalRequest: true,
	}
	if err := e.invites.Create(inv); err != nil {
		return nil, nil, err
	}
	e.metrics.IncExternalRequests()
	log.Info("External join request created", "turnID", turnID, "playerID", playerID, "invitationID", inv.ID)

	evts := []events.Event{{
		Type:        events.TypeExternalRequestCreated,
		TurnID:      turnID,
		RecipientID: turn.OrganizerID(),
		ActorID:     playerID,
		Title:       "Pedido para unirse",
		Body:        player.Name + " quiere unirse a tu turno del " + turn.Date + ".",
		Data:        map[string]string{"invitation_id": inv.ID},
	}}
	return inv, evts, nil
}

// ApproveExternal converts an external request into a regular pending
// invitation from the organizer. The requester still has to accept with
// a side and position.
func (e *Engine) ApproveExternal(ctx context.Context, invitationID, actorID string) (*invites.Invitation, []events.Event, error) {
	inv, err := e.getInvitation(invitationID)
	if err != nil {
		return nil, nil, err
	}

	unlock := e.lock(inv.TurnID)
	defer unlock()

	inv, turn, err := e.reloadInvitation(invitationID)
	if err != nil {
		return nil, nil, err
	}
	if actorID != turn.OrganizerID() {
		return nil, nil, newError(CodePermissionDenied, "only the organizer may approve join requests")
	}
	if !inv.IsExternalRequest || inv.Status != invites.StatusPending {
		return nil, nil, newError(CodeInvalidState, "invitation %s is not a pending external request", invitationID)
	}
	if turn.FirstOpenSlot() == -1 {
		e.metrics.IncConstraintRejections()
		return nil, nil, newError(CodeCapacityExceeded, "turn %s is already full", turn.ID)
	}

	inv.IsExternalRequest = false
	inv.InviterID = turn.OrganizerID()
	if err := e.invites.Update(inv); err != nil {
		return nil, nil, err
	}
	log.Info("External request approved", "turnID", turn.ID, "invitationID", inv.ID, "playerID", inv.InvitedPlayerID)

	evts := []events.Event{{
		Type:        events.TypeExternalRequestApproved,
		TurnID:      turn.ID,
		RecipientID: inv.InvitedPlayerID,
		ActorID:     actorID,
		Title:       "Pedido aprobado",
		Body:        "El organizador aprobó tu pedido. Elegí lado y posición para confirmar.",
		Data:        map[string]string{"invitation_id": inv.ID},
	}}
	return inv, evts, nil
}

// RejectExternal declines a pending external request.
func (e *Engine) RejectExternal(ctx context.Context, invitationID, actorID string) ([]events.Event, error) {
	inv, err := e.getInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	unlock := e.lock(inv.TurnID)
	defer unlock()

	inv, turn, err := e.reloadInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if actorID != turn.OrganizerID() {
		return nil, newError(CodePermissionDenied, "only the organizer may reject join requests")
	}
	if !inv.IsExternalRequest || inv.Status != invites.StatusPending {
		return nil, newError(CodeInvalidState, "invitation %s is not a pending external request", invitationID)
	}

	if err := e.invites.UpdateStatus(inv.ID, invites.StatusDeclined); err != nil {
		return nil, err
	}
	log.Info("External request rejected", "turnID", turn.ID, "invitationID", inv.ID)

	return []events.Event{{
		Type:        events.TypeExternalRequestRejected,
		TurnID:      turn.ID,
		RecipientID: inv.InvitedPlayerID,
		ActorID:     actorID,
		Title:       "Pedido rechazado",
		Body:        "El organizador rechazó tu pedido para el turno del " + turn.Date + ".",
	}}, nil
}

// CancelInvitation withdraws a pending invitation. The inviter, the
// organizer and the club admin may cancel.
func (e *Engine) CancelInvitation(ctx context.Context, invitationID, actorID string) ([]events.Event, error) {
	inv, err := e.getInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	unlock := e.lock(inv.TurnID)
	defer unlock()

	inv, turn, err := e.reloadInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if inv.Status != invites.StatusPending {
		return nil, newError(CodeInvalidState, "invitation %s is %s", invitationID, inv.Status)
	}
	if actorID != inv.InviterID && actorID != turn.OrganizerID() {
		actor, err := e.getPlayer(actorID)
		if err != nil {
			return nil, err
		}
		if !actor.IsAdmin {
			return nil, newError(CodePermissionDenied, "player %s may not cancel invitation %s", actorID, invitationID)
		}
	}

	if err := e.invites.UpdateStatus(inv.ID, invites.StatusCancelled); err != nil {
		return nil, err
	}
	log.Info("Invitation cancelled", "turnID", turn.ID, "invitationID", inv.ID, "actorID", actorID)

	return []events.Event{{
		Type:        events.TypeInvitationCancelled,
		TurnID:      turn.ID,
		RecipientID: inv.InvitedPlayerID,
		ActorID:     actorID,
		Title:       "Invitación cancelada",
		Body:        "Tu invitación al turno del " + turn.Date + " fue cancelada.",
	}}, nil
}

// getInvitation loads the invitation or fails with NOT_FOUND.
func (e *Engine) getInvitation(invitationID string) (*invites.Invitation, error) {
	inv, err := e.invites.Get(invitationID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, newError(CodeNotFound, "invitation %s not found", invitationID)
	}
	return inv, nil
}

// reloadInvitation re-reads the invitation and its turn under the lock.
func (e *Engine) reloadInvitation(invitationID string) (*invites.Invitation, *turns.Turn, error) {
	inv, err := e.getInvitation(invitationID)
	if err != nil {
		return nil, nil, err
	}
	turn, err := e.getTurn(inv.TurnID)
	if err != nil {
		return nil, nil, err
	}
	return inv, turn, nil
}
