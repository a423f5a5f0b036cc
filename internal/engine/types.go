package engine

import (
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/metrics"
	"github.com/padelclub/turnero/internal/players"
	"github.com/padelclub/turnero/internal/turns"
)

// Engine orchestrates turn formation: it owns the invitation workflow,
// the cancellation paths and all capacity and constraint validation.
// Every mutating operation serializes on the turn's lock, re-reads state
// under it, validates and then mutates. Operations return the domain
// events they produced; the caller dispatches them after the mutation.
type Engine struct {
	turns   turns.TurnStore
	invites invites.InvitationStore
	players players.PlayerDirectory
	metrics metrics.Metrics
	clubID  string
}

// New creates a new Engine.
func New(turnStore turns.TurnStore, invitationStore invites.InvitationStore, directory players.PlayerDirectory, metricsSvc metrics.Metrics, clubID string) *Engine {
	return &Engine{
		turns:   turnStore,
		invites: invitationStore,
		players: directory,
		metrics: metricsSvc,
		clubID:  clubID,
	}
}

// CreateTurnParams carries everything needed to claim a free slot.
type CreateTurnParams struct {
	TemplateID              string
	CourtID                 string
	Date                    string
	StartTime               string
	EndTime                 string
	PriceCents              int64
	OrganizerID             string
	Side                    string
	CourtPosition           int
	CategoryRestricted      bool
	CategoryRestrictionType turns.CategoryRestriction
	IsMixedMatch            bool
	FreeCategory            bool
}

// Decision is a player's answer to a pending invitation.
type Decision string

const (
	DecisionAccept  Decision = "ACCEPT"
	DecisionDecline Decision = "DECLINE"
)

// RespondParams carries a player's response to an invitation. Side and
// CourtPosition are required when accepting.
type RespondParams struct {
	InvitationID  string
	PlayerID      string
	Decision      Decision
	Side          string
	CourtPosition int
}

// Rejection explains why one target of a batch invitation was refused.
type Rejection struct {
	PlayerID string    `json:"player_id"`
	Code     ErrorCode `json:"code"`
	Reason   string    `json:"reason"`
}

// CreateResult reports the outcome of a batch invitation: the rows that
// were created and the per-target rejections.
type CreateResult struct {
	Created    []*invites.Invitation `json:"created"`
	Rejections []Rejection           `json:"rejections"`
}

// CanInviteReport describes a player's remaining invitation capability
// for a turn.
type CanInviteReport struct {
	CanInvite   bool   `json:"can_invite"`
	IsOrganizer bool   `json:"is_organizer"`
	IsValidated bool   `json:"is_validated"`
	Remaining   int    `json:"remaining"` // -1 means limited only by capacity
	Reason      string `json:"reason,omitempty"`
}
