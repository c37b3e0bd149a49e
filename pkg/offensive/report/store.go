// Package report keeps a journal of failed assertion chains so that
// contract violations can be inspected after the fact.
package report

import (
	"errors"
	"time"
)

// Entry is one failed chain.
type Entry struct {
	// Sequence orders entries within a store. Assigned by Save.
	Sequence     int64
	EvaluationID string
	Subject      string
	ErrorName    string
	Message      string
	// Value is the rendered value under test.
	Value     string
	Timestamp time.Time
}

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save appends an entry. A zero Timestamp is set to the current time.
	Save(e Entry) error

	// Get returns the entry of an evaluation.
	// Returns ErrNotFound if there is none.
	Get(evaluationID string) (Entry, error)

	// List returns all entries for a subject, oldest first.
	// Returns empty slice (not error) if there are none.
	List(subject string) ([]Entry, error)

	// Recent returns up to limit entries, newest first.
	Recent(limit int) ([]Entry, error)

	// Clear removes all entries.
	Clear() error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
