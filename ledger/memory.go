package ledger

import (
	"sync"
	"time"

	"github.com/mohitgarg/socialflow/model"
)

// InMemoryStore holds the session's records in a slice. Records are
// appended in timestamp order by the single workflow thread; the mutex
// exists for the background health ticker reading concurrently.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []model.ActionRecord
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(rec model.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *InMemoryStore) Query(since time.Time) ([]model.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ActionRecord, 0, len(s.records))
	for _, rec := range s.records {
		if since.IsZero() || !rec.Timestamp.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Truncate(before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, rec := range s.records {
		if !rec.Timestamp.Before(before) {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	return nil
}

func (s *InMemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
