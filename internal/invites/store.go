package invites

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new InvitationStore.
func New(db *sql.DB) InvitationStore {
	return &store{
		db: db,
	}
}

const invitationColumns = `id, turn_id, inviter_id, invited_player_id, status, message, is_validated_invitation, is_external_request, created_at, responded_at`

// Create inserts a new invitation.
func (s *store) Create(inv *Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.Exec(`
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		inv.ID, inv.TurnID, inv.InviterID, inv.InvitedPlayerID, inv.Status,
		inv.Message, inv.IsValidatedInvitation, inv.IsExternalRequest,
		inv.CreatedAt, inv.RespondedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// Get retrieves a single invitation by id. Returns (nil, nil) when not found.
func (s *store) Get(invitationID string) (*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, invitationID)
	inv, err := s.scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

// Update persists all mutable fields of the invitation.
func (s *store) Update(inv *Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE invitations SET
			inviter_id = ?,
			status = ?,
			message = ?,
			is_validated_invitation = ?,
			is_external_request = ?,
			responded_at = ?
		WHERE id = ?
	`,
		inv.InviterID, inv.Status, inv.Message, inv.IsValidatedInvitation,
		inv.IsExternalRequest, inv.RespondedAt, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation %s: %w", inv.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("invitation %s does not exist", inv.ID)
	}
	return nil
}

// UpdateStatus transitions the invitation and stamps responded_at.
func (s *store) UpdateStatus(invitationID string, status InvitationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"UPDATE invitations SET status = ?, responded_at = ? WHERE id = ?",
		status, time.Now().Unix(), invitationID,
	)
	return err
}

// ListByTurn returns every invitation for the turn.
func (s *store) ListByTurn(turnID string) ([]*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+invitationColumns+` FROM invitations WHERE turn_id = ?`, turnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectInvitations(rows)
}

// ListReceived returns every invitation addressed to the player.
func (s *store) ListReceived(playerID string) ([]*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+invitationColumns+` FROM invitations
		WHERE invited_player_id = ?
		ORDER BY created_at DESC
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectInvitations(rows)
}

// ListSent returns every invitation the player has sent.
func (s *store) ListSent(playerID string) ([]*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+invitationColumns+` FROM invitations
		WHERE inviter_id = ?
		ORDER BY created_at DESC
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectInvitations(rows)
}

// FindActive returns the PENDING or ACCEPTED invitation for the pair, or nil.
func (s *store) FindActive(turnID, playerID string) (*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT `+invitationColumns+` FROM invitations
		WHERE turn_id = ? AND invited_player_id = ? AND status IN (?, ?)
	`, turnID, playerID, StatusPending, StatusAccepted)
	inv, err := s.scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

// CountValidatedSent counts validated invitations ever sent by the player
// for the turn. Cancelled and declined rows still count against the limit.
func (s *store) CountValidatedSent(turnID, inviterID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM invitations
		WHERE turn_id = ? AND inviter_id = ? AND is_validated_invitation = 1
	`, turnID, inviterID).Scan(&n)
	return n, err
}

// CountPendingByTurn counts the turn's PENDING invitations.
func (s *store) CountPendingByTurn(turnID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM invitations WHERE turn_id = ? AND status = ?",
		turnID, StatusPending,
	).Scan(&n)
	return n, err
}

func (s *store) collectInvitations(rows *sql.Rows) ([]*Invitation, error) {
	var out []*Invitation
	for rows.Next() {
		inv, err := s.scanInvitation(rows)
		if err != nil {
			log.Error("Failed to scan invitation row", "error", err)
			continue
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// scanInvitation is a helper to scan a single invitation row.
func (s *store) scanInvitation(scanner interface{ Scan(...any) error }) (*Invitation, error) {
	var inv Invitation
	var respondedAt sql.NullInt64

	err := scanner.Scan(
		&inv.ID, &inv.TurnID, &inv.InviterID, &inv.InvitedPlayerID, &inv.Status,
		&inv.Message, &inv.IsValidatedInvitation, &inv.IsExternalRequest,
		&inv.CreatedAt, &respondedAt,
	)
	if err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Int64
	}
	return &inv, nil
}
