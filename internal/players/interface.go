package players

// PlayerDirectory defines the interface for interacting with the club roster.
type PlayerDirectory interface {
	Upsert(player *Player) error
	UpsertMany(players []*Player) error
	Get(playerID string) (*Player, error)
	GetMany(playerIDs []string) ([]*Player, error)
	// Search returns players whose name matches the query, excluding the
	// given ids. Results are advisory; the engine re-validates on every
	// mutation.
	Search(query string, excludeIDs []string) ([]*Player, error)
	ClubAdmin(clubID string) (*Player, error)
}
