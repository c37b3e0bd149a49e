package report

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists the journal to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	limit  int
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite journal. The path should be a file
// path (e.g., "./failures.db") or ":memory:" for testing. When limit is
// positive, only the newest limit entries are kept.
func NewSQLiteStore(path string, limit int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise get its own database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS failures (
			sequence INTEGER PRIMARY KEY AUTOINCREMENT,
			evaluation_id TEXT NOT NULL,
			subject TEXT NOT NULL,
			error_name TEXT NOT NULL,
			message TEXT NOT NULL,
			value TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_failures_subject
		ON failures(subject)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db, limit: limit}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if _, err := s.db.Exec(`
		INSERT INTO failures (evaluation_id, subject, error_name, message, value, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.EvaluationID, e.Subject, e.ErrorName, e.Message, e.Value,
		e.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}

	if s.limit > 0 {
		if _, err := s.db.Exec(`
			DELETE FROM failures
			WHERE sequence <= (SELECT MAX(sequence) FROM failures) - ?
		`, s.limit); err != nil {
			return fmt.Errorf("trim journal: %w", err)
		}
	}
	return nil
}

const selectEntry = `SELECT sequence, evaluation_id, subject, error_name, message, value, timestamp FROM failures`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var timestamp string
	if err := row.Scan(&e.Sequence, &e.EvaluationID, &e.Subject, &e.ErrorName,
		&e.Message, &e.Value, &timestamp); err != nil {
		return Entry{}, err
	}
	e.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
	return e, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(evaluationID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	e, err := scanEntry(s.db.QueryRow(selectEntry+` WHERE evaluation_id = ? LIMIT 1`, evaluationID))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load entry: %w", err)
	}
	return e, nil
}

// List implements Store.
func (s *SQLiteStore) List(subject string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.query(selectEntry+` WHERE subject = ? ORDER BY sequence`, subject)
}

// Recent implements Store.
func (s *SQLiteStore) Recent(limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	return s.query(selectEntry+` ORDER BY sequence DESC LIMIT ?`, limit)
}

// query must be called with the lock held.
func (s *SQLiteStore) query(q string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if _, err := s.db.Exec(`DELETE FROM failures`); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
