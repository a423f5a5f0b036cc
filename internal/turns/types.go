package turns

import (
	"database/sql"
	"sync"
)

// store handles all database operations for turns.
type store struct {
	db    *sql.DB
	mu    sync.RWMutex
	locks *lockRegistry
}

// TurnStatus represents the lifecycle state of a turn.
type TurnStatus string

const (
	StatusAvailable   TurnStatus = "AVAILABLE"
	StatusPending     TurnStatus = "PENDING"
	StatusReadyToPlay TurnStatus = "READY_TO_PLAY"
	StatusCancelled   TurnStatus = "CANCELLED"
	StatusCompleted   TurnStatus = "COMPLETED"
)

// CategoryRestriction controls who may join a category-restricted turn.
type CategoryRestriction string

const (
	RestrictionNone   CategoryRestriction = "NONE"
	RestrictionSame   CategoryRestriction = "SAME_CATEGORY"
	RestrictionNearby CategoryRestriction = "NEARBY_CATEGORIES"
)

// SlotCount is the fixed number of playing positions in a padel turn.
const SlotCount = 4

// Slot is one playing position. A zero-valued Slot is open.
// Slot 0 always belongs to the organizer of the turn.
type Slot struct {
	PlayerID      string `json:"player_id"`
	Side          string `json:"side"`
	CourtPosition int    `json:"court_position"`
}

// Open reports whether the slot has no player assigned.
func (s Slot) Open() bool {
	return s.PlayerID == ""
}

// Turn represents a bookable playing window on a court and the four
// players forming it.
type Turn struct {
	ID                      string              `json:"id"`
	TemplateID              string              `json:"template_id"`
	CourtID                 string              `json:"court_id"`
	SelectedCourtID         *string             `json:"selected_court_id"`
	Date                    string              `json:"date"`
	StartTime               string              `json:"start_time"`
	EndTime                 string              `json:"end_time"`
	PriceCents              int64               `json:"price_cents"`
	Status                  TurnStatus          `json:"status"`
	Slots                   [SlotCount]Slot     `json:"slots"`
	CategoryRestricted      bool                `json:"category_restricted"`
	CategoryRestrictionType CategoryRestriction `json:"category_restriction_type"`
	OrganizerCategory       string              `json:"organizer_category"`
	IsMixedMatch            bool                `json:"is_mixed_match"`
	FreeCategory            bool                `json:"free_category"`
	CancellationMessage     string              `json:"cancellation_message"`
	CreatedAt               int64               `json:"created_at"`
	UpdatedAt               int64               `json:"updated_at"`
}

// OrganizerID returns the player occupying slot 0, or "" for an empty turn.
func (t *Turn) OrganizerID() string {
	return t.Slots[0].PlayerID
}

// Occupied counts the filled slots.
func (t *Turn) Occupied() int {
	n := 0
	for _, s := range t.Slots {
		if !s.Open() {
			n++
		}
	}
	return n
}

// PlayerIDs returns the ids of all players currently in the turn.
func (t *Turn) PlayerIDs() []string {
	ids := make([]string, 0, SlotCount)
	for _, s := range t.Slots {
		if !s.Open() {
			ids = append(ids, s.PlayerID)
		}
	}
	return ids
}

// HasPlayer reports whether the player occupies any slot.
func (t *Turn) HasPlayer(playerID string) bool {
	for _, s := range t.Slots {
		if s.PlayerID == playerID {
			return true
		}
	}
	return false
}

// SlotOf returns the index of the player's slot, or -1.
func (t *Turn) SlotOf(playerID string) int {
	for i, s := range t.Slots {
		if s.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// FirstOpenSlot returns the lowest open non-organizer slot index, or -1
// when the turn is full.
func (t *Turn) FirstOpenSlot() int {
	for i := 1; i < SlotCount; i++ {
		if t.Slots[i].Open() {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the turn can no longer change.
func (t *Turn) IsTerminal() bool {
	return t.Status == StatusCancelled || t.Status == StatusCompleted
}
