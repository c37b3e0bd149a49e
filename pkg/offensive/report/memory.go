package report

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory journal. When a limit is set, the oldest
// entries are dropped once it is exceeded. Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
	seq     int64
	closed  bool
}

// NewMemoryStore creates a new in-memory journal. A limit of zero or less
// keeps every entry.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: limit}
}

// Save implements Store.
func (m *MemoryStore) Save(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.seq++
	e.Sequence = m.seq
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	m.entries = append(m.entries, e)
	if m.limit > 0 && len(m.entries) > m.limit {
		drop := len(m.entries) - m.limit
		m.entries = append(m.entries[:0:0], m.entries[drop:]...)
	}
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(evaluationID string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}
	for _, e := range m.entries {
		if e.EvaluationID == evaluationID {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// List implements Store.
func (m *MemoryStore) List(subject string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	var out []Entry
	for _, e := range m.entries {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out, nil
}

// Recent implements Store.
func (m *MemoryStore) Recent(limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.entries = nil
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
