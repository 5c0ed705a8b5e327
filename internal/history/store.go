// Package history persists tool runs to a local SQLite database. Every
// tool records one row per run; nothing else is shared between tools.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind labels which tool produced an entry.
type Kind string

const (
	KindConvert Kind = "convert"
	KindTimer   Kind = "timer"
	KindCheck   Kind = "check"
	KindOpen    Kind = "open"
)

// Entry is one recorded run.
type Entry struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Subject   string        `json:"subject"` // file path, preset name, ...
	Outcome   string        `json:"outcome"` // finished, cancelled, ok, ...
	Count     int64         `json:"count"`   // rows, findings, tabs opened
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// createdAtLayout pads the fractional second to a fixed width so that
// lexicographic ORDER BY on the stored text matches chronological
// order. RFC3339Nano drops trailing zeros and breaks that property
// for entries recorded within the same second.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open initializes the database at path, creating directories and the
// schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL DEFAULT '',
		count INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind, created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Record inserts one run and returns its generated ID.
func (s *Store) Record(e Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, kind, subject, outcome, count, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Subject, e.Outcome, e.Count,
		e.Duration.Milliseconds(), e.CreatedAt.Format(createdAtLayout))
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return e.ID, nil
}

// Recent returns the newest entries, optionally filtered by kind
// (empty kind means all tools).
func (s *Store) Recent(kind Kind, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 {
		limit = 20
	}

	query := `SELECT id, kind, subject, outcome, count, duration_ms, created_at
		FROM runs`
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			kindStr string
			ms      int64
			created string
		)
		if err := rows.Scan(&e.ID, &kindStr, &e.Subject, &e.Outcome, &e.Count, &ms, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Kind = Kind(kindStr)
		e.Duration = time.Duration(ms) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs cursor: %w", err)
	}
	return out, nil
}

// Counts returns how many runs each tool has recorded.
func (s *Store) Counts() (map[Kind]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT kind, COUNT(*) FROM runs GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	defer rows.Close()

	out := make(map[Kind]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[Kind(kind)] = n
	}
	return out, rows.Err()
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
