// Package store persists calculation history using SQLite. History is a
// UI-layer convenience; the calculation engine itself never touches it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/awaistahir/wattwise/internal/engine"
	"github.com/awaistahir/wattwise/internal/knowledge"
	_ "modernc.org/sqlite"
)

// Store handles persistent storage using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new store and initializes the database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the database schema.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		appliance TEXT,
		category TEXT,
		power_watts REAL NOT NULL,
		duration_minutes REAL NOT NULL,
		rate_per_kwh REAL NOT NULL,
		energy_kwh REAL NOT NULL,
		cost REAL NOT NULL,
		analogy TEXT NOT NULL,
		explanation TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created ON calculations(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Entry is one saved calculation.
type Entry struct {
	ID          int64         `json:"id"`
	Result      engine.Result `json:"result"`
	Explanation string        `json:"explanation"`
	CreatedAt   time.Time     `json:"created_at"`
}

// SaveCalculation appends a result and its explanation to the history.
func (s *Store) SaveCalculation(res engine.Result, explanation string) (int64, error) {
	analogyJSON, err := json.Marshal(res.Analogy)
	if err != nil {
		return 0, fmt.Errorf("encoding analogy: %w", err)
	}

	query := `INSERT INTO calculations
		(appliance, category, power_watts, duration_minutes, rate_per_kwh, energy_kwh, cost, analogy, explanation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.Exec(query, res.Appliance, string(res.Category), res.PowerWatts,
		res.DurationMinutes, res.RatePerKWh, res.EnergyKWh, res.Cost,
		string(analogyJSON), explanation, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// RecentCalculations returns saved entries, newest first, up to limit.
// A non-positive limit returns the most recent 20.
func (s *Store) RecentCalculations(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, appliance, category, power_watts, duration_minutes, rate_per_kwh,
		energy_kwh, cost, analogy, explanation, created_at
		FROM calculations ORDER BY id DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var category, analogyJSON, createdAt string

		err := rows.Scan(&e.ID, &e.Result.Appliance, &category, &e.Result.PowerWatts,
			&e.Result.DurationMinutes, &e.Result.RatePerKWh, &e.Result.EnergyKWh,
			&e.Result.Cost, &analogyJSON, &e.Explanation, &createdAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(analogyJSON), &e.Result.Analogy); err != nil {
			return nil, fmt.Errorf("decoding analogy for entry %d: %w", e.ID, err)
		}
		e.Result.Category = knowledge.Category(category)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
