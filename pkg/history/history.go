package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBName is the file created inside the data directory.
const DBName = "history.db"

// Entry is one workspace seen by jot.
type Entry struct {
	Name        string    `json:"name"`
	NotesFolder string    `json:"notes_folder"`
	Notes       int       `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	LastUsed    time.Time `json:"last_used"`
}

// History records which workspaces were used and how many notes jot created in each
type History struct {
	db      *sql.DB
	dataDir string
	now     func() time.Time
}

// Open opens (creating if needed) the history database in dataDir.
func Open(dataDir string) (*History, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBName)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	h := &History{
		db:      db,
		dataDir: dataDir,
		now:     time.Now,
	}

	if err := h.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history: %w", err)
	}

	return h, nil
}

// init creates the database schema
func (h *History) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workspaces (
		name TEXT PRIMARY KEY,
		notes_folder TEXT NOT NULL DEFAULT '',
		notes INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		last_used TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workspaces_last_used ON workspaces(last_used);
	`

	_, err := h.db.Exec(schema)
	return err
}

// Touch marks the workspace as used now, registering it if it is new.
func (h *History) Touch(name, notesFolder string) error {
	query := `
	INSERT INTO workspaces (name, notes_folder, created_at, last_used)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		notes_folder = excluded.notes_folder,
		last_used = excluded.last_used
	`

	now := h.now()
	if _, err := h.db.Exec(query, name, notesFolder, now, now); err != nil {
		return fmt.Errorf("touch workspace %s: %w", name, err)
	}
	return nil
}

// RecordNote adds delta to the note count of a registered workspace.
// The count never goes below zero.
func (h *History) RecordNote(name string, delta int) error {
	_, err := h.db.Exec(
		"UPDATE workspaces SET notes = MAX(notes + ?, 0) WHERE name = ?",
		delta, name,
	)
	if err != nil {
		return fmt.Errorf("record note for %s: %w", name, err)
	}
	return nil
}

// Get retrieves a workspace by name
func (h *History) Get(name string) (*Entry, error) {
	query := `
	SELECT name, notes_folder, notes, created_at, last_used
	FROM workspaces WHERE name = ?
	`

	e := &Entry{}
	err := h.db.QueryRow(query, name).Scan(&e.Name, &e.NotesFolder, &e.Notes, &e.CreatedAt, &e.LastUsed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workspace not found: %s", name)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all recorded workspaces, most recently used first
func (h *History) List() ([]*Entry, error) {
	query := `
	SELECT name, notes_folder, notes, created_at, last_used
	FROM workspaces ORDER BY last_used DESC, name ASC
	`

	rows, err := h.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.Name, &e.NotesFolder, &e.Notes, &e.CreatedAt, &e.LastUsed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Remove forgets a workspace. Its directory is left alone.
func (h *History) Remove(name string) error {
	_, err := h.db.Exec("DELETE FROM workspaces WHERE name = ?", name)
	return err
}

// Close closes the history database
func (h *History) Close() error {
	return h.db.Close()
}
