package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {

	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "turns", "invitations"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name, "The '%s' table should be created", table)
	}
}

func TestInitDB_MigrationsAreIdempotent(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	// Re-applying against an up-to-date database is a no-op.
	err = runMigrations(db, "../../migrations")
	assert.NoError(t, err)
}
