package turns_test

import (
	"testing"
	"time"

	"github.com/padelclub/turnero/internal/database"
	"github.com/padelclub/turnero/internal/turns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (turns.TurnStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return turns.New(db), dbTeardown
}

func newTestTurn(id, courtID, date, startTime, organizerID string) *turns.Turn {
	turn := &turns.Turn{
		ID:        id,
		CourtID:   courtID,
		Date:      date,
		StartTime: startTime,
		EndTime:   "11:30",
		Status:    turns.StatusPending,
	}
	turn.Slots[0] = turns.Slot{PlayerID: organizerID, Side: "drive", CourtPosition: 1}
	return turn
}

func TestCreateAndGet(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	turn := newTestTurn("turn-1", "court-1", "2026-09-01", "10:00", "org-1")
	turn.IsMixedMatch = true
	turn.OrganizerCategory = "5ta"

	require.NoError(t, store.Create(turn))

	got, err := store.Get("turn-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "org-1", got.OrganizerID())
	assert.Equal(t, 1, got.Occupied())
	assert.True(t, got.IsMixedMatch)
	assert.Equal(t, "5ta", got.OrganizerCategory)
	assert.Equal(t, turns.StatusPending, got.Status)
	assert.NotZero(t, got.CreatedAt)
}

func TestGet_NotFound(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	got, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_PersistsSlots(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	turn := newTestTurn("turn-1", "court-1", "2026-09-01", "10:00", "org-1")
	require.NoError(t, store.Create(turn))

	turn.Slots[1] = turns.Slot{PlayerID: "p2", Side: "reves", CourtPosition: 2}
	turn.Slots[2] = turns.Slot{PlayerID: "p3", Side: "drive", CourtPosition: 3}
	turn.Slots[3] = turns.Slot{PlayerID: "p4", Side: "reves", CourtPosition: 4}
	turn.Status = turns.StatusReadyToPlay
	require.NoError(t, store.Update(turn))

	got, err := store.Get("turn-1")
	require.NoError(t, err)
	assert.Equal(t, turns.StatusReadyToPlay, got.Status)
	assert.Equal(t, 4, got.Occupied())
	assert.Equal(t, []string{"org-1", "p2", "p3", "p4"}, got.PlayerIDs())
	assert.Equal(t, -1, got.FirstOpenSlot())
}

func TestUpdate_UnknownTurn(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	turn := newTestTurn("ghost", "court-1", "2026-09-01", "10:00", "org-1")
	err := store.Update(turn)
	assert.Error(t, err)
}

func TestFindActiveSlot(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	active := newTestTurn("turn-1", "court-1", "2026-09-01", "10:00", "org-1")
	require.NoError(t, store.Create(active))

	cancelled := newTestTurn("turn-2", "court-2", "2026-09-01", "10:00", "org-2")
	cancelled.Status = turns.StatusCancelled
	require.NoError(t, store.Create(cancelled))

	got, err := store.FindActiveSlot("court-1", "2026-09-01", "10:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "turn-1", got.ID)

	// Cancelled turns do not hold the slot.
	got, err = store.FindActiveSlot("court-2", "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.FindActiveSlot("court-1", "2026-09-01", "12:00")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindActiveSchedule(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.Create(newTestTurn("turn-1", "court-1", "2026-09-01", "10:00", "org-1")))
	require.NoError(t, store.Create(newTestTurn("turn-2", "court-2", "2026-09-01", "10:00", "org-2")))
	require.NoError(t, store.Create(newTestTurn("turn-3", "court-3", "2026-09-01", "12:00", "org-3")))

	got, err := store.FindActiveSchedule("2026-09-01", "10:00")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListForPlayer(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	mine := newTestTurn("turn-1", "court-1", "2026-09-01", "10:00", "org-1")
	mine.Slots[1] = turns.Slot{PlayerID: "p2", Side: "reves", CourtPosition: 2}
	require.NoError(t, store.Create(mine))
	require.NoError(t, store.Create(newTestTurn("turn-2", "court-2", "2026-09-01", "10:00", "org-2")))

	got, err := store.ListForPlayer("p2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "turn-1", got[0].ID)

	got, err = store.ListForPlayer("nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLock_SerializesSameTurn(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	unlock := store.Lock("turn-1")

	acquired := make(chan struct{})
	go func() {
		u := store.Lock("turn-1")
		close(acquired)
		u()
	}()

	time.Sleep(50 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("second acquire should block while the lock is held")
	default:
	}

	unlock()
	<-acquired
}

func TestLock_IndependentTurns(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	unlock1 := store.Lock("turn-1")
	defer unlock1()

	// A different turn id must not contend.
	unlock2 := store.Lock("turn-2")
	unlock2()
}
