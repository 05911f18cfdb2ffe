package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lifeforce/internal/flow"
)

const timeLayout = "2006-01-02T15:04:05"

// Snapshot is the stored form of a live session
type Snapshot struct {
	ID        string        `json:"id"`
	Session   *flow.Session `json:"session"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type Database struct {
	db *sql.DB
}

// New opens the SQLite database at path. ":memory:" keeps everything in RAM
// for the lifetime of the process.
func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// a second connection to ":memory:" would be a different, empty database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	database := NewWithDB(db)
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

// NewWithDB wraps an already opened connection without creating tables
func NewWithDB(db *sql.DB) *Database {
	return &Database{db: db}
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// SaveSession stores the session under id, replacing any earlier snapshot
func (d *Database) SaveSession(id string, session *flow.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = d.db.Exec(
		`INSERT INTO sessions (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id,
		string(data),
		time.Now().UTC().Format(timeLayout),
	)
	return err
}

// GetSession returns the stored session, or nil when id is unknown
func (d *Database) GetSession(id string) (*Snapshot, error) {
	var data, updatedAt string

	err := d.db.QueryRow(
		`SELECT data, updated_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&data, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session flow.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}

	snapshot := &Snapshot{ID: id, Session: &session}
	if t, err := time.Parse(timeLayout, updatedAt); err == nil {
		snapshot.UpdatedAt = t
	}

	return snapshot, nil
}

func (d *Database) DeleteSession(id string) error {
	_, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// SetPreference saves a single key/value preference
func (d *Database) SetPreference(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key,
		value,
	)
	return err
}

// GetPreference returns the saved value, or "" when nothing was saved
func (d *Database) GetPreference(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
