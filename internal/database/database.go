package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and runs all pending goose migrations.
// For local-only databases, dbPath is the filename (":memory:" works for tests).
// For embedded replicas, primaryUrl is the remote Turso database.
func InitDB(dbPath string, primaryUrl string, authToken string, migrationsDir string) (*sql.DB, func(), error) {
	var dsn string
	if primaryUrl == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		dsn = "file:" + dbPath
	} else {
		log.Info("Initializing Turso database", "url", primaryUrl)
		dsn = primaryUrl + "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory SQLite database exists per connection, so the pool
	// must be pinned to a single connection or each query may see an
	// empty schema.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db, migrationsDir); err != nil {
		db.Close()
		return nil, nil, err
	}

	teardown := func() {
		log.Info("Closing database connection")
		db.Close()
	}
	return db, teardown, nil
}

func runMigrations(db *sql.DB, migrationsDir string) error {
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations applied", "dir", migrationsDir)
	return nil
}
