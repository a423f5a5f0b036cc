package turns

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new TurnStore.
func New(db *sql.DB) TurnStore {
	return &store{
		db:    db,
		locks: newLockRegistry(),
	}
}

const turnColumns = `id, template_id, court_id, selected_court_id, date, start_time, end_time, price_cents, status, slots_json, category_restricted, category_restriction_type, organizer_category, is_mixed_match, free_category, cancellation_message, created_at, updated_at`

// Create inserts a new turn.
func (s *store) Create(turn *Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slotsJSON, err := json.Marshal(turn.Slots)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	now := time.Now().Unix()
	if turn.CreatedAt == 0 {
		turn.CreatedAt = now
	}
	turn.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO turns (`+turnColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		turn.ID, turn.TemplateID, turn.CourtID, turn.SelectedCourtID, turn.Date,
		turn.StartTime, turn.EndTime, turn.PriceCents, turn.Status, slotsJSON,
		turn.CategoryRestricted, turn.CategoryRestrictionType, turn.OrganizerCategory,
		turn.IsMixedMatch, turn.FreeCategory, turn.CancellationMessage,
		turn.CreatedAt, turn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// Get retrieves a single turn by id. Returns (nil, nil) when not found.
func (s *store) Get(turnID string) (*Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+turnColumns+` FROM turns WHERE id = ?`, turnID)
	turn, err := s.scanTurn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return turn, err
}

// Update persists all mutable fields of the turn.
func (s *store) Update(turn *Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slotsJSON, err := json.Marshal(turn.Slots)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}
	turn.UpdatedAt = time.Now().Unix()

	res, err := s.db.Exec(`
		UPDATE turns SET
			selected_court_id = ?,
			status = ?,
			slots_json = ?,
			category_restricted = ?,
			category_restriction_type = ?,
			organizer_category = ?,
			is_mixed_match = ?,
			free_category = ?,
			cancellation_message = ?,
			updated_at = ?
		WHERE id = ?
	`,
		turn.SelectedCourtID, turn.Status, slotsJSON, turn.CategoryRestricted,
		turn.CategoryRestrictionType, turn.OrganizerCategory, turn.IsMixedMatch,
		turn.FreeCategory, turn.CancellationMessage, turn.UpdatedAt, turn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update turn %s: %w", turn.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("turn %s does not exist", turn.ID)
	}
	return nil
}

// FindActiveSlot returns the non-terminal turn occupying the given
// (court, date, start time) slot, or nil.
func (s *store) FindActiveSlot(courtID, date, startTime string) (*Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT `+turnColumns+` FROM turns
		WHERE court_id = ? AND date = ? AND start_time = ?
		AND status NOT IN (?, ?)
	`, courtID, date, startTime, StatusCancelled, StatusCompleted)
	turn, err := s.scanTurn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return turn, err
}

// FindActiveSchedule returns all non-terminal turns at the given date and
// start time, across courts.
func (s *store) FindActiveSchedule(date, startTime string) ([]*Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+turnColumns+` FROM turns
		WHERE date = ? AND start_time = ?
		AND status NOT IN (?, ?)
	`, date, startTime, StatusCancelled, StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectTurns(rows)
}

// ListByStatus returns all turns in the given status.
func (s *store) ListByStatus(status TurnStatus) ([]*Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+turnColumns+` FROM turns WHERE status = ?`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectTurns(rows)
}

// ListForPlayer returns the non-terminal turns the player occupies a slot in.
// Slot membership lives inside slots_json, so occupancy is checked in Go.
func (s *store) ListForPlayer(playerID string) ([]*Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+turnColumns+` FROM turns
		WHERE status NOT IN (?, ?)
	`, StatusCancelled, StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all, err := s.collectTurns(rows)
	if err != nil {
		return nil, err
	}
	var out []*Turn
	for _, t := range all {
		if t.HasPlayer(playerID) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Lock acquires the per-turn mutex and returns its release function.
func (s *store) Lock(turnID string) func() {
	return s.locks.acquire(turnID)
}

func (s *store) collectTurns(rows *sql.Rows) ([]*Turn, error) {
	var out []*Turn
	for rows.Next() {
		turn, err := s.scanTurn(rows)
		if err != nil {
			log.Error("Failed to scan turn row", "error", err)
			continue
		}
		out = append(out, turn)
	}
	return out, rows.Err()
}

// scanTurn is a helper to scan a single turn row.
func (s *store) scanTurn(scanner interface{ Scan(...any) error }) (*Turn, error) {
	var turn Turn
	var slotsJSON string
	var selectedCourtID sql.NullString

	err := scanner.Scan(
		&turn.ID, &turn.TemplateID, &turn.CourtID, &selectedCourtID, &turn.Date,
		&turn.StartTime, &turn.EndTime, &turn.PriceCents, &turn.Status, &slotsJSON,
		&turn.CategoryRestricted, &turn.CategoryRestrictionType, &turn.OrganizerCategory,
		&turn.IsMixedMatch, &turn.FreeCategory, &turn.CancellationMessage,
		&turn.CreatedAt, &turn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if selectedCourtID.Valid {
		turn.SelectedCourtID = &selectedCourtID.String
	}
	if err := json.Unmarshal([]byte(slotsJSON), &turn.Slots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slots for turn %s: %w", turn.ID, err)
	}
	return &turn, nil
}
