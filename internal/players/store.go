package players

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new PlayerDirectory.
func New(db *sql.DB) PlayerDirectory {
	return &store{
		db: db,
	}
}

// Upsert inserts or updates a player.
func (s *store) Upsert(player *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsert(player)
}

// UpsertMany inserts or updates players in a single transaction.
func (s *store) UpsertMany(list []*Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, gender, category, is_admin, club_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			gender = excluded.gender,
			category = excluded.category,
			is_admin = excluded.is_admin,
			club_id = excluded.club_id;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range list {
		if _, err := stmt.Exec(p.ID, p.Name, p.Gender, p.Category, p.IsAdmin, p.ClubID); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) upsert(p *Player) error {
	_, err := s.db.Exec(`
		INSERT INTO players (id, name, gender, category, is_admin, club_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			gender = excluded.gender,
			category = excluded.category,
			is_admin = excluded.is_admin,
			club_id = excluded.club_id;
	`, p.ID, p.Name, p.Gender, p.Category, p.IsAdmin, p.ClubID)
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
	}
	return nil
}

// Get retrieves a single player by id. Returns (nil, nil) when not found.
func (s *store) Get(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow(
		"SELECT id, name, gender, category, is_admin, club_id FROM players WHERE id = ?",
		playerID,
	).Scan(&p.ID, &p.Name, &p.Gender, &p.Category, &p.IsAdmin, &p.ClubID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetMany retrieves the players with the given ids. Missing ids are skipped.
func (s *store) GetMany(playerIDs []string) ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Player
	for _, id := range playerIDs {
		var p Player
		err := s.db.QueryRow(
			"SELECT id, name, gender, category, is_admin, club_id FROM players WHERE id = ?",
			id,
		).Scan(&p.ID, &p.Name, &p.Gender, &p.Category, &p.IsAdmin, &p.ClubID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}

// Search matches players by name, case-insensitive, excluding the given ids.
func (s *store) Search(query string, excludeIDs []string) ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, name, gender, category, is_admin, club_id FROM players WHERE name LIKE ? ORDER BY name",
		"%"+query+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var out []*Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Gender, &p.Category, &p.IsAdmin, &p.ClubID); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		if excluded[p.ID] {
			continue
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ClubAdmin returns the club's admin player, or nil when none is registered.
func (s *store) ClubAdmin(clubID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow(
		"SELECT id, name, gender, category, is_admin, club_id FROM players WHERE club_id = ? AND is_admin = 1 LIMIT 1",
		clubID,
	).Scan(&p.ID, &p.Name, &p.Gender, &p.Category, &p.IsAdmin, &p.ClubID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
