package players_test

import (
	"testing"

	"github.com/padelclub/turnero/internal/database"
	"github.com/padelclub/turnero/internal/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (players.PlayerDirectory, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return players.New(db), dbTeardown
}

func TestUpsertAndGet(t *testing.T) {
	dir, teardown := setupTestDB(t)
	defer teardown()

	p := &players.Player{
		ID: "p1", Name: "Ana Gomez", Gender: "Femenino",
		Category: "5ta", ClubID: "club-1",
	}
	require.NoError(t, dir.Upsert(p))

	got, err := dir.Get("p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana Gomez", got.Name)
	assert.Equal(t, "5ta", got.Category)

	// Upsert updates in place.
	p.Category = "4ta"
	require.NoError(t, dir.Upsert(p))
	got, err = dir.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "4ta", got.Category)
}

func TestGet_NotFound(t *testing.T) {
	dir, teardown := setupTestDB(t)
	defer teardown()

	got, err := dir.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearch_ExcludesIDs(t *testing.T) {
	dir, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, dir.UpsertMany([]*players.Player{
		{ID: "p1", Name: "Ana Gomez", Gender: "Femenino", Category: "5ta"},
		{ID: "p2", Name: "Ana Lopez", Gender: "Femenino", Category: "6ta"},
		{ID: "p3", Name: "Bruno Diaz", Gender: "Masculino", Category: "5ta"},
	}))

	got, err := dir.Search("Ana", []string{"p2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	got, err = dir.Search("", nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestClubAdmin(t *testing.T) {
	dir, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, dir.UpsertMany([]*players.Player{
		{ID: "p1", Name: "Ana Gomez", ClubID: "club-1"},
		{ID: "admin", Name: "Carla Ruiz", ClubID: "club-1", IsAdmin: true},
	}))

	got, err := dir.ClubAdmin("club-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.ID)

	got, err = dir.ClubAdmin("club-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
