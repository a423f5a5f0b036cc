package turns

import (
	"sync"
)

// MockStore is a mock implementation of the TurnStore interface for testing.
// It is safe for concurrent use. Turns are held in memory and the lock
// registry behaves like the real one.
type MockStore struct {
	mu    sync.Mutex
	locks *lockRegistry
	turns map[string]*Turn

	// Spies for method calls
	CreateFunc             func(turn *Turn) error
	GetFunc                func(turnID string) (*Turn, error)
	UpdateFunc             func(turn *Turn) error
	FindActiveSlotFunc     func(courtID, date, startTime string) (*Turn, error)
	FindActiveScheduleFunc func(date, startTime string) ([]*Turn, error)

	// Call records
	CreateCalls []*Turn
	UpdateCalls []*Turn
	LockCalls   []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{
		locks: newLockRegistry(),
		turns: make(map[string]*Turn),
	}
}

// Reset clears all call records and stored turns.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = make(map[string]*Turn)
	m.CreateCalls = nil
	m.UpdateCalls = nil
	m.LockCalls = nil
}

// Seed places a turn into the mock without recording a call.
func (m *MockStore) Seed(turn *Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *turn
	m.turns[turn.ID] = &cp
}

func (m *MockStore) Create(turn *Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, turn)
	if m.CreateFunc != nil {
		return m.CreateFunc(turn)
	}
	cp := *turn
	m.turns[turn.ID] = &cp
	return nil
}

func (m *MockStore) Get(turnID string) (*Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(turnID)
	}
	t, ok := m.turns[turnID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *MockStore) Update(turn *Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, turn)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(turn)
	}
	cp := *turn
	m.turns[turn.ID] = &cp
	return nil
}

func (m *MockStore) FindActiveSlot(courtID, date, startTime string) (*Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindActiveSlotFunc != nil {
		return m.FindActiveSlotFunc(courtID, date, startTime)
	}
	for _, t := range m.turns {
		if t.CourtID == courtID && t.Date == date && t.StartTime == startTime && !t.IsTerminal() {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockStore) FindActiveSchedule(date, startTime string) ([]*Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindActiveScheduleFunc != nil {
		return m.FindActiveScheduleFunc(date, startTime)
	}
	var out []*Turn
	for _, t := range m.turns {
		if t.Date == date && t.StartTime == startTime && !t.IsTerminal() {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) ListByStatus(status TurnStatus) ([]*Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Turn
	for _, t := range m.turns {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) ListForPlayer(playerID string) ([]*Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Turn
	for _, t := range m.turns {
		if !t.IsTerminal() && t.HasPlayer(playerID) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) Lock(turnID string) func() {
	m.mu.Lock()
	m.LockCalls = append(m.LockCalls, turnID)
	m.mu.Unlock()
	return m.locks.acquire(turnID)
}
