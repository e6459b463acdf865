package store

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Keys used by the client. They mirror the browser localStorage keys the
// server's web client uses for the same state.
const (
	KeyToken         = "token"
	KeyUserDetails   = "userdetails"
	KeyArchivedTasks = "archivedTasks"
)

// KV is a persistent string key-value store. Get returns "" for a missing
// key. Implementations must survive process restarts (except test fakes).
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB is a sqlite-backed KV store
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database
func (s *DB) Close() error {
	return s.db.Close()
}

// Get retrieves a value by key, "" if absent
func (s *DB) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Set stores a value under key, replacing any previous value
func (s *DB) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Remove deletes a key. Removing a missing key is not an error.
func (s *DB) Remove(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}
