package notifier

import (
	"sync"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spy for method calls
	NotifyFunc func(userID, title, body string, data map[string]string) error

	// Call records
	NotifyCalls []NotifyCall
}

// NotifyCall holds the arguments for a call to Notify.
type NotifyCall struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyCalls = nil
}

func (m *Mock) Notify(userID, title, body string, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyCalls = append(m.NotifyCalls, NotifyCall{UserID: userID, Title: title, Body: body, Data: data})
	if m.NotifyFunc != nil {
		return m.NotifyFunc(userID, title, body, data)
	}
	return nil
}

// NotifiedUsers returns the recipients of all recorded calls.
func (m *Mock) NotifiedUsers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.NotifyCalls))
	for _, c := range m.NotifyCalls {
		out = append(out, c.UserID)
	}
	return out
}
