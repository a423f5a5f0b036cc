package invites

import (
	"fmt"
	"sync"
)

// MockStore is a mock implementation of the InvitationStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu          sync.Mutex
	invitations map[string]*Invitation

	// Spies for method calls
	CreateFunc       func(inv *Invitation) error
	UpdateStatusFunc func(invitationID string, status InvitationStatus) error

	// Call records
	CreateCalls       []*Invitation
	UpdateStatusCalls []struct {
		InvitationID string
		Status       InvitationStatus
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{invitations: make(map[string]*Invitation)}
}

// Reset clears all call records and stored invitations.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations = make(map[string]*Invitation)
	m.CreateCalls = nil
	m.UpdateStatusCalls = nil
}

// Seed places an invitation into the mock without recording a call.
func (m *MockStore) Seed(inv *Invitation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.invitations[inv.ID] = &cp
}

func (m *MockStore) Create(inv *Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, inv)
	if m.CreateFunc != nil {
		return m.CreateFunc(inv)
	}
	cp := *inv
	m.invitations[inv.ID] = &cp
	return nil
}

func (m *MockStore) Get(invitationID string) (*Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invitations[invitationID]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *MockStore) Update(inv *Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invitations[inv.ID]; !ok {
		return fmt.Errorf("invitation %s does not exist", inv.ID)
	}
	cp := *inv
	m.invitations[inv.ID] = &cp
	return nil
}

func (m *MockStore) UpdateStatus(invitationID string, status InvitationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, struct {
		InvitationID string
		Status       InvitationStatus
	}{invitationID, status})
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(invitationID, status)
	}
	if inv, ok := m.invitations[invitationID]; ok {
		inv.Status = status
	}
	return nil
}

func (m *MockStore) ListByTurn(turnID string) ([]*Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Invitation
	for _, inv := range m.invitations {
		if inv.TurnID == turnID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) ListReceived(playerID string) ([]*Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Invitation
	for _, inv := range m.invitations {
		if inv.InvitedPlayerID == playerID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) ListSent(playerID string) ([]*Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Invitation
	for _, inv := range m.invitations {
		if inv.InviterID == playerID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) FindActive(turnID, playerID string) (*Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invitations {
		if inv.TurnID == turnID && inv.InvitedPlayerID == playerID &&
			(inv.Status == StatusPending || inv.Status == StatusAccepted) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockStore) CountValidatedSent(turnID, inviterID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, inv := range m.invitations {
		if inv.TurnID == turnID && inv.InviterID == inviterID && inv.IsValidatedInvitation {
			n++
		}
	}
	return n, nil
}

func (m *MockStore) CountPendingByTurn(turnID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, inv := range m.invitations {
		if inv.TurnID == turnID && inv.Status == StatusPending {
			n++
		}
	}
	return n, nil
}
