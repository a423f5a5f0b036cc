package invites_test

import (
	"database/sql"
	"testing"

	"github.com/padelclub/turnero/internal/database"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (invites.InvitationStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return invites.New(db), db, dbTeardown
}

// seedRefs inserts the player and turn rows the invitation foreign keys need.
func seedRefs(t *testing.T, db *sql.DB, turnID string, playerIDs ...string) {
	t.Helper()
	for _, id := range playerIDs {
		_, err := db.Exec(
			"INSERT OR IGNORE INTO players (id, name, gender, category) VALUES (?, ?, 'Masculino', '5ta')",
			id, "Player "+id,
		)
		require.NoError(t, err)
	}
	_, err := db.Exec(`
		INSERT OR IGNORE INTO turns (id, court_id, date, start_time, end_time, status, slots_json, created_at, updated_at)
		VALUES (?, 'court-1', '2026-09-01', '10:00', '11:30', 'PENDING', '[{},{},{},{}]', 0, 0)
	`, turnID)
	require.NoError(t, err)
}

func TestCreateAndGet(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedRefs(t, db, "turn-1", "org-1", "p2")

	inv := &invites.Invitation{
		ID:                    "inv-1",
		TurnID:                "turn-1",
		InviterID:             "org-1",
		InvitedPlayerID:       "p2",
		Status:                invites.StatusPending,
		Message:               "nos falta uno",
		IsValidatedInvitation: true,
	}
	require.NoError(t, store.Create(inv))

	got, err := store.Get("inv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, invites.StatusPending, got.Status)
	assert.True(t, got.IsValidatedInvitation)
	assert.False(t, got.IsExternalRequest)
	assert.Nil(t, got.RespondedAt)
	assert.NotZero(t, got.CreatedAt)
}

func TestGet_NotFound(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	got, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateStatus_StampsRespondedAt(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedRefs(t, db, "turn-1", "org-1", "p2")

	inv := &invites.Invitation{
		ID: "inv-1", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p2", Status: invites.StatusPending,
	}
	require.NoError(t, store.Create(inv))
	require.NoError(t, store.UpdateStatus("inv-1", invites.StatusAccepted))

	got, err := store.Get("inv-1")
	require.NoError(t, err)
	assert.Equal(t, invites.StatusAccepted, got.Status)
	require.NotNil(t, got.RespondedAt)
	assert.NotZero(t, *got.RespondedAt)
}

func TestFindActive(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedRefs(t, db, "turn-1", "org-1", "p2", "p3")

	declined := &invites.Invitation{
		ID: "inv-1", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p2", Status: invites.StatusDeclined,
	}
	require.NoError(t, store.Create(declined))

	// Declined invitations are not active.
	got, err := store.FindActive("turn-1", "p2")
	require.NoError(t, err)
	assert.Nil(t, got)

	pending := &invites.Invitation{
		ID: "inv-2", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p2", Status: invites.StatusPending,
	}
	require.NoError(t, store.Create(pending))

	got, err = store.FindActive("turn-1", "p2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "inv-2", got.ID)

	got, err = store.FindActive("turn-1", "p3")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCountValidatedSent_CountsAllStatuses(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedRefs(t, db, "turn-1", "org-1", "val-1", "p2", "p3")
	seedRefs(t, db, "turn-2", "val-1", "p4")

	// A cancelled validated invitation still consumes the lifetime budget.
	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-1", TurnID: "turn-1", InviterID: "val-1",
		InvitedPlayerID: "p2", Status: invites.StatusCancelled,
		IsValidatedInvitation: true,
	}))
	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-2", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p3", Status: invites.StatusPending,
		IsValidatedInvitation: true,
	}))
	// A different turn does not count.
	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-3", TurnID: "turn-2", InviterID: "val-1",
		InvitedPlayerID: "p4", Status: invites.StatusPending,
		IsValidatedInvitation: true,
	}))

	n, err := store.CountValidatedSent("turn-1", "val-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.CountValidatedSent("turn-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountPendingByTurn(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedRefs(t, db, "turn-1", "org-1", "p2", "p3", "p4")

	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-1", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p2", Status: invites.StatusPending,
	}))
	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-2", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p3", Status: invites.StatusPending,
	}))
	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-3", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p4", Status: invites.StatusDeclined,
	}))

	n, err := store.CountPendingByTurn("turn-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListReceivedAndSent(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedRefs(t, db, "turn-1", "org-1", "p2", "p3")

	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-1", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p2", Status: invites.StatusPending,
	}))
	require.NoError(t, store.Create(&invites.Invitation{
		ID: "inv-2", TurnID: "turn-1", InviterID: "org-1",
		InvitedPlayerID: "p3", Status: invites.StatusPending,
	}))

	received, err := store.ListReceived("p2")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "inv-1", received[0].ID)

	sent, err := store.ListSent("org-1")
	require.NoError(t, err)
	assert.Len(t, sent, 2)

	byTurn, err := store.ListByTurn("turn-1")
	require.NoError(t, err)
	assert.Len(t, byTurn, 2)
}
