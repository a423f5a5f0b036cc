package players

import "sync"

// MockDirectory is a mock implementation of the PlayerDirectory interface
// for testing. It is safe for concurrent use.
type MockDirectory struct {
	mu      sync.Mutex
	players map[string]*Player

	// Spies for method calls
	GetFunc    func(playerID string) (*Player, error)
	SearchFunc func(query string, excludeIDs []string) ([]*Player, error)

	// Call records
	SearchCalls []struct {
		Query      string
		ExcludeIDs []string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockDirectory {
	return &MockDirectory{players: make(map[string]*Player)}
}

// Seed places a player into the mock.
func (m *MockDirectory) Seed(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.players[p.ID] = &cp
}

func (m *MockDirectory) Upsert(p *Player) error {
	m.Seed(p)
	return nil
}

func (m *MockDirectory) UpsertMany(list []*Player) error {
	for _, p := range list {
		m.Seed(p)
	}
	return nil
}

func (m *MockDirectory) Get(playerID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	p, ok := m.players[playerID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MockDirectory) GetMany(playerIDs []string) ([]*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Player
	for _, id := range playerIDs {
		if p, ok := m.players[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockDirectory) Search(query string, excludeIDs []string) ([]*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls = append(m.SearchCalls, struct {
		Query      string
		ExcludeIDs []string
	}{query, excludeIDs})
	if m.SearchFunc != nil {
		return m.SearchFunc(query, excludeIDs)
	}
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []*Player
	for _, p := range m.players {
		if !excluded[p.ID] {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockDirectory) ClubAdmin(clubID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.ClubID == clubID && p.IsAdmin {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
