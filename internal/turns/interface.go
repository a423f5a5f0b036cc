package turns

// TurnStore defines the interface for interacting with turn data.
// Lock serializes mutating work on a single turn: callers acquire it,
// re-read the turn, validate and mutate, then release. Turns with
// different ids never contend.
type TurnStore interface {
	Create(turn *Turn) error
	Get(turnID string) (*Turn, error)
	Update(turn *Turn) error
	FindActiveSlot(courtID, date, startTime string) (*Turn, error)
	FindActiveSchedule(date, startTime string) ([]*Turn, error)
	ListByStatus(status TurnStatus) ([]*Turn, error)
	ListForPlayer(playerID string) ([]*Turn, error)
	Lock(turnID string) (unlock func())
}
