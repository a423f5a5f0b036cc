package players

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club roster.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player represents a club member who can organize and join turns.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Category string `json:"category"`
	IsAdmin  bool   `json:"is_admin"`
	ClubID   string `json:"club_id"`
}
