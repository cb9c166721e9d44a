package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a durable local key/value store backed by SQLite. It plays the
// role browser localStorage plays for the web client: small JSON values under
// well-known keys, surviving process restarts.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the local store at the given path
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	// A single writer keeps persisted snapshots ordered
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping local store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS local_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create local_state table: %w", err)
	}

	return &Store{db: db}, nil
}

// Put serializes value as JSON and upserts it under key
func (s *Store) Put(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	query := `
	INSERT INTO local_state (key, value, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.Exec(query, key, string(data)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	return nil
}

// Get reads the JSON value under key into dest. It returns false with no
// error when the key is absent.
func (s *Store) Get(key string, dest interface{}) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM local_state WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}

	return true, nil
}

// Delete removes the value under key; absent keys are a no-op
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM local_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
