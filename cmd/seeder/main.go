package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/padelclub/turnero/internal/rules"
	"github.com/padelclub/turnero/internal/turns"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

var categories = []string{"9na", "8va", "7ma", "6ta", "5ta", "4ta", "3ra", "2da", "1ra"}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Seed a roster of players to organize the dummy turns
	const numPlayers = 40
	playerIDs := make([]string, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		id := fmt.Sprintf("seed-player-%d", i+1)
		gender := rules.GenderMale
		if i%2 == 1 {
			gender = rules.GenderFemale
		}
		category := categories[rand.Intn(len(categories))]
		_, err := db.Exec(
			"INSERT OR IGNORE INTO players (id, name, gender, category, is_admin, club_id) VALUES (?, ?, ?, ?, ?, ?)",
			id, fmt.Sprintf("Seeder Player %d", i+1), gender, category, 0, "seed-club",
		)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", id, err)
		}
		playerIDs = append(playerIDs, id)
	}
	log.Info("Ensured dummy players exist.", "count", numPlayers)

	const batchSize = 100 // Insert 100 turns at a time
	const numTurns = 10000

	log.Info("Preparing to insert dummy turns...", "total", numTurns, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*17) // 17 columns per turn

	startTimes := []string{"08:00", "09:30", "11:00", "17:00", "18:30", "20:00", "21:30"}
	endTimes := []string{"09:30", "11:00", "12:30", "18:30", "20:00", "21:30", "23:00"}

	for i := 0; i < numTurns; i++ {
		organizerID := playerIDs[rand.Intn(len(playerIDs))]
		day := time.Now().AddDate(0, 0, -rand.Intn(365))
		slotIdx := rand.Intn(len(startTimes))

		var slots [turns.SlotCount]turns.Slot
		slots[0] = turns.Slot{PlayerID: organizerID, Side: rules.SideDrive, CourtPosition: 1}
		slotsJSON, _ := json.Marshal(slots)

		now := time.Now().Unix()
		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			"", // template_id
			fmt.Sprintf("court-%d", i%4+1),
			nil, // selected_court_id
			day.Format("2006-01-02"),
			startTimes[slotIdx],
			endTimes[slotIdx],
			120000+rand.Int63n(40000), // price_cents
			string(turns.StatusPending),
			string(slotsJSON),
			0, // category_restricted
			string(turns.RestrictionNone),
			"", // organizer_category
			0,  // is_mixed_match
			0,  // free_category
			now,
			now,
		)

		if (i+1)%batchSize == 0 || (i+1) == numTurns {
			stmt := fmt.Sprintf(`
				INSERT INTO turns (id, template_id, court_id, selected_court_id, date, start_time, end_time,
					price_cents, status, slots_json, category_restricted, category_restriction_type,
					organizer_category, is_mixed_match, free_category, created_at, updated_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*17)
			log.Info("Inserted batch", "completed", i+1, "total", numTurns)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy turns.", "duration", duration)
}
