package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/setanarut/nbody"
	_ "modernc.org/sqlite"
)

// Setting keys
const (
	keyGravity      = "gravity"
	keyReleaseMass  = "release_mass"
	keyReleaseSize  = "release_size"
	keySubdivisions = "subdivisions"
)

// Store keeps slider settings across restarts in SQLite
type Store struct {
	conn *sql.DB
}

// OpenStore opens (or creates) the settings database
func OpenStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value REAL NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		log.Printf("store migration error: %v", err)
		return fmt.Errorf("migrate store: %w", err)
	}
	return nil
}

// LoadParams overlays stored settings on p. Unknown keys are ignored.
func (s *Store) LoadParams(p nbody.Params) (nbody.Params, error) {
	rows, err := s.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return p, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return p, fmt.Errorf("load settings: %w", err)
		}
		switch key {
		case keyGravity:
			p.Gravity = value
		case keyReleaseMass:
			p.ReleaseMass = value
		case keyReleaseSize:
			p.ReleaseSize = value
		case keySubdivisions:
			p.Subdivisions = int(value)
		}
	}
	if err := rows.Err(); err != nil {
		return p, fmt.Errorf("load settings: %w", err)
	}
	return p.Clamp(), nil
}

// SaveParams stores the slider-controlled fields of p
func (s *Store) SaveParams(p nbody.Params) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	defer tx.Rollback()

	values := map[string]float64{
		keyGravity:      p.Gravity,
		keyReleaseMass:  p.ReleaseMass,
		keyReleaseSize:  p.ReleaseSize,
		keySubdivisions: float64(p.Subdivisions),
	}
	for key, value := range values {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
