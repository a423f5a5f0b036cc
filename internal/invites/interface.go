package invites

// InvitationStore defines the interface for interacting with invitation data.
type InvitationStore interface {
	Create(inv *Invitation) error
	Get(invitationID string) (*Invitation, error)
	Update(inv *Invitation) error
	UpdateStatus(invitationID string, status InvitationStatus) error
	ListByTurn(turnID string) ([]*Invitation, error)
	ListReceived(playerID string) ([]*Invitation, error)
	ListSent(playerID string) ([]*Invitation, error)
	// FindActive returns the PENDING or ACCEPTED invitation for the
	// (turn, player) pair, or nil. At most one such row exists.
	FindActive(turnID, playerID string) (*Invitation, error)
	// CountValidatedSent counts every validated invitation the player has
	// ever sent for the turn, regardless of its current status.
	CountValidatedSent(turnID, inviterID string) (int, error)
	CountPendingByTurn(turnID string) (int, error)
}
