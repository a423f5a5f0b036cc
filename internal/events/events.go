package events

// Type identifies a domain event produced by an engine operation.
type Type string

const (
	TypeInvitationCreated       Type = "invitation-created"
	TypeInvitationAccepted      Type = "invitation-accepted"
	TypeInvitationDeclined      Type = "invitation-declined"
	TypeInvitationCancelled     Type = "invitation-cancelled"
	TypeExternalRequestCreated  Type = "external-request-created"
	TypeExternalRequestApproved Type = "external-request-approved"
	TypeExternalRequestRejected Type = "external-request-rejected"
	TypeTurnCreated             Type = "turn-created"
	TypeTurnReady               Type = "turn-ready"
	TypeTurnCancelled           Type = "turn-cancelled"
	TypePositionCancelled       Type = "position-cancelled"
	TypePlayerDisplaced         Type = "player-displaced"
)

// Event is a notification-worthy fact about a turn, addressed to a single
// recipient. Engine operations return events instead of notifying inline;
// the dispatcher delivers them after the mutation has committed.
type Event struct {
	Type        Type
	TurnID      string
	RecipientID string
	ActorID     string
	Title       string
	Body        string
	Data        map[string]string
}
