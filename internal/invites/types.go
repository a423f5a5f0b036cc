package invites

import (
	"database/sql"
	"sync"
)

// store handles all database operations for invitations.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// InvitationStatus represents the lifecycle state of an invitation.
type InvitationStatus string

const (
	StatusPending   InvitationStatus = "PENDING"
	StatusAccepted  InvitationStatus = "ACCEPTED"
	StatusDeclined  InvitationStatus = "DECLINED"
	StatusCancelled InvitationStatus = "CANCELLED"
	StatusExpired   InvitationStatus = "EXPIRED"
)

// Invitation links a player to a turn, either sent by someone already in
// the turn or raised by an outsider as an external join request.
type Invitation struct {
	ID                    string           `json:"id"`
	TurnID                string           `json:"turn_id"`
	InviterID             string           `json:"inviter_id"`
	InvitedPlayerID       string           `json:"invited_player_id"`
	Status                InvitationStatus `json:"status"`
	Message               string           `json:"message"`
	IsValidatedInvitation bool             `json:"is_validated_invitation"`
	IsExternalRequest     bool             `json:"is_external_request"`
	CreatedAt             int64            `json:"created_at"`
	RespondedAt           *int64           `json:"responded_at"`
}

// Terminal reports whether the invitation can no longer be acted on.
func (i *Invitation) Terminal() bool {
	switch i.Status {
	case StatusDeclined, StatusCancelled, StatusExpired:
		return true
	}
	return false
}
