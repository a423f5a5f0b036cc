package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	invitationsCreated   int
	invitationsAccepted  int
	invitationsDeclined  int
	externalRequests     int
	turnsCreated         int
	turnsCancelled       int
	constraintRejections int
	lockWaits            []float64
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		lockWaits: make([]float64, 0),
	}
}

func (m *Mock) IncInvitationsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitationsCreated++
}

func (m *Mock) IncInvitationsAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitationsAccepted++
}

func (m *Mock) IncInvitationsDeclined() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitationsDeclined++
}

func (m *Mock) IncExternalRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.externalRequests++
}

func (m *Mock) IncTurnsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnsCreated++
}

func (m *Mock) IncTurnsCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnsCancelled++
}

func (m *Mock) IncConstraintRejections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraintRejections++
}

func (m *Mock) ObserveLockWait(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockWaits = append(m.lockWaits, seconds)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// InvitationsCreated returns the number of times IncInvitationsCreated was called.
func (m *Mock) InvitationsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invitationsCreated
}

// InvitationsAccepted returns the number of times IncInvitationsAccepted was called.
func (m *Mock) InvitationsAccepted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invitationsAccepted
}

// InvitationsDeclined returns the number of times IncInvitationsDeclined was called.
func (m *Mock) InvitationsDeclined() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invitationsDeclined
}

// TurnsCancelled returns the number of times IncTurnsCancelled was called.
func (m *Mock) TurnsCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnsCancelled
}

// ConstraintRejections returns the number of times IncConstraintRejections was called.
func (m *Mock) ConstraintRejections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.constraintRejections
}

// LockWaits returns all observed lock wait durations.
func (m *Mock) LockWaits() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.lockWaits...)
}

// MockStore is a mock implementation of MetricsStore for testing.
type MockStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{counts: make(map[string]int)}
}

func (m *MockStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *MockStore) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}
