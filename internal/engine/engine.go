package engine

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/players"
	"github.com/padelclub/turnero/internal/rules"
	"github.com/padelclub/turnero/internal/turns"
)

// CreateTurn claims a free (court, date, start time) slot: the organizer
// takes slot 0 and the turn starts out PENDING. At most one non-terminal
// turn may occupy a slot; concurrent claims serialize on a slot-scoped lock.
func (e *Engine) CreateTurn(ctx context.Context, params CreateTurnParams) (*turns.Turn, []events.Event, error) {
	organizer, err := e.getPlayer(params.OrganizerID)
	if err != nil {
		return nil, nil, err
	}
	if !rules.IsValidSide(params.Side) {
		return nil, nil, newError(CodeConstraintViolation, "invalid side %q", params.Side)
	}
	if params.CourtPosition < 1 || params.CourtPosition > turns.SlotCount {
		return nil, nil, newError(CodeConstraintViolation, "invalid court position %d", params.CourtPosition)
	}
	if params.IsMixedMatch && !rules.IsValidGender(organizer.Gender) {
		return nil, nil, newError(CodeConstraintViolation, "organizer gender is required for a mixed match")
	}
	if params.CategoryRestricted && params.CategoryRestrictionType != turns.RestrictionNone {
		if _, ok := rules.CategoryNumber(organizer.Category); !ok {
			return nil, nil, newError(CodeConstraintViolation, "organizer category %q is not on the ladder", organizer.Category)
		}
	}

	// The turn does not exist yet, so serialization happens on the slot
	// being claimed rather than on a turn id.
	unlock := e.lock("slot/" + params.CourtID + "/" + params.Date + "/" + params.StartTime)
	defer unlock()

	existing, err := e.turns.FindActiveSlot(params.CourtID, params.Date, params.StartTime)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, newError(CodeDuplicateOperation, "slot %s %s on court %s is already taken by turn %s", params.Date, params.StartTime, params.CourtID, existing.ID)
	}

	// One court at a time: the organizer must not already hold a slot in
	// another live turn at this date and start time.
	others, err := e.turns.FindActiveSchedule(params.Date, params.StartTime)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range others {
		if t.HasPlayer(organizer.ID) {
			e.metrics.IncConstraintRejections()
			return nil, nil, newError(CodeConstraintViolation, "player %s already plays at %s %s", organizer.ID, params.Date, params.StartTime)
		}
	}

	turn := &turns.Turn{
		ID:                      uuid.New().String(),
		TemplateID:              params.TemplateID,
		CourtID:                 params.CourtID,
		Date:                    params.Date,
		StartTime:               params.StartTime,
		EndTime:                 params.EndTime,
		PriceCents:              params.PriceCents,
		Status:                  turns.StatusPending,
		CategoryRestricted:      params.CategoryRestricted,
		CategoryRestrictionType: params.CategoryRestrictionType,
		OrganizerCategory:       organizer.Category,
		IsMixedMatch:            params.IsMixedMatch,
		FreeCategory:            params.FreeCategory,
	}
	if turn.CategoryRestrictionType == "" {
		turn.CategoryRestrictionType = turns.RestrictionNone
	}
	turn.Slots[0] = turns.Slot{
		PlayerID:      organizer.ID,
		Side:          params.Side,
		CourtPosition: params.CourtPosition,
	}

	if err := e.turns.Create(turn); err != nil {
		return nil, nil, err
	}
	e.metrics.IncTurnsCreated()
	log.Info("Turn created", "turnID", turn.ID, "courtID", turn.CourtID, "date", turn.Date, "startTime", turn.StartTime, "organizerID", organizer.ID)

	evts := []events.Event{{
		Type:        events.TypeTurnCreated,
		TurnID:      turn.ID,
		RecipientID: organizer.ID,
		ActorID:     organizer.ID,
		Title:       "Turno reservado",
		Body:        "Reservaste el turno del " + turn.Date + " a las " + turn.StartTime + ".",
	}}
	return turn, evts, nil
}

// lock acquires a keyed lock and records the wait.
func (e *Engine) lock(key string) func() {
	start := time.Now()
	unlock := e.turns.Lock(key)
	e.metrics.ObserveLockWait(time.Since(start).Seconds())
	return unlock
}

// getTurn loads the turn or fails with NOT_FOUND.
func (e *Engine) getTurn(turnID string) (*turns.Turn, error) {
	turn, err := e.turns.Get(turnID)
	if err != nil {
		return nil, err
	}
	if turn == nil {
		return nil, newError(CodeNotFound, "turn %s not found", turnID)
	}
	return turn, nil
}

// getPlayer loads the player or fails with NOT_FOUND.
func (e *Engine) getPlayer(playerID string) (*players.Player, error) {
	p, err := e.players.Get(playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, newError(CodeNotFound, "player %s not found", playerID)
	}
	return p, nil
}

// isValidated reports whether the player is the organizer or holds an
// ACCEPTED invitation sent by the organizer.
func (e *Engine) isValidated(turn *turns.Turn, playerID string) (bool, error) {
	if playerID == turn.OrganizerID() {
		return true, nil
	}
	inv, err := e.invites.FindActive(turn.ID, playerID)
	if err != nil {
		return false, err
	}
	return inv != nil && inv.Status == invites.StatusAccepted && inv.InviterID == turn.OrganizerID(), nil
}

// genderCounts tallies the genders of everyone committed to the turn:
// confirmed players plus pending invitees. excludeInvitationID leaves a
// player's own pending invitation out when they are accepting it.
func (e *Engine) genderCounts(turn *turns.Turn, excludeInvitationID string) (map[string]int, error) {
	ids := turn.PlayerIDs()

	list, err := e.invites.ListByTurn(turn.ID)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		if inv.ID == excludeInvitationID || inv.Status != invites.StatusPending {
			continue
		}
		ids = append(ids, inv.InvitedPlayerID)
	}

	members, err := e.players.GetMany(ids)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range members {
		counts[p.Gender]++
	}
	return counts, nil
}

// sideGenders returns the genders of the confirmed players on one side.
func (e *Engine) sideGenders(turn *turns.Turn, side string) ([]string, error) {
	var ids []string
	for _, s := range turn.Slots {
		if !s.Open() && s.Side == side {
			ids = append(ids, s.PlayerID)
		}
	}
	members, err := e.players.GetMany(ids)
	if err != nil {
		return nil, err
	}
	genders := make([]string, 0, len(members))
	for _, p := range members {
		genders = append(genders, p.Gender)
	}
	return genders, nil
}

// scheduleClash reports whether the player already occupies a slot in a
// different non-terminal turn at the same date and start time.
func (e *Engine) scheduleClash(turn *turns.Turn, playerID string) (bool, error) {
	others, err := e.turns.FindActiveSchedule(turn.Date, turn.StartTime)
	if err != nil {
		return false, err
	}
	for _, t := range others {
		if t.ID != turn.ID && t.HasPlayer(playerID) {
			return true, nil
		}
	}
	return false, nil
}

// checkJoin runs the admission checks shared by invitation targets,
// external requesters and accepting players. excludeInvitationID is the
// player's own pending invitation, when responding to one.
func (e *Engine) checkJoin(turn *turns.Turn, player *players.Player, excludeInvitationID string) error {
	if err := rules.CheckCategory(turn, player.Category); err != nil {
		return newError(CodeConstraintViolation, "%s", err.Error())
	}
	if turn.IsMixedMatch {
		counts, err := e.genderCounts(turn, excludeInvitationID)
		if err != nil {
			return err
		}
		if err := rules.CheckGenderBalance(counts, player.Gender); err != nil {
			return newError(CodeConstraintViolation, "%s", err.Error())
		}
	}
	return nil
}

// checkCapacity maps the capacity rule onto the typed error taxonomy.
func checkCapacity(confirmed, pending, adding int) error {
	if err := rules.CheckCapacity(confirmed, pending, adding); err != nil {
		return newError(CodeCapacityExceeded, "%s", err.Error())
	}
	return nil
}

func newInvitationID() string {
	return uuid.New().String()
}
