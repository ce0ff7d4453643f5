// Package ledger keeps the append-only record of every automated
// action in the session. All rate and pattern analysis derives from it.
package ledger

import (
	"time"

	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/model"
	"go.uber.org/zap"
)

// Store persists action records. Implementations: in-memory (default)
// and redis.
type Store interface {
	Append(rec model.ActionRecord) error
	// Query returns records at or after since, oldest first. A zero
	// since returns everything.
	Query(since time.Time) ([]model.ActionRecord, error)
	Truncate(before time.Time) error
	Clear() error
}

type Ledger struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Ledger {
	return NewWithClock(store, time.Now)
}

// NewWithClock injects the time source; tests use it to replay
// activity at controlled timestamps.
func NewWithClock(store Store, now func() time.Time) *Ledger {
	return &Ledger{store: store, now: now}
}

// Now reports the ledger's clock so collaborators compute windows
// against the same time source.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Record appends an action record with the current timestamp. It never
// fails: a store error is logged and swallowed, recording is strictly a
// side effect.
func (l *Ledger) Record(kind model.ActionKind, metadata map[string]any) {
	rec := model.ActionRecord{Type: kind, Timestamp: l.now(), Metadata: metadata}
	if err := l.store.Append(rec); err != nil {
		logger.Error("failed to append action record", zap.String("type", string(kind)), zap.Error(err))
	}
}

// Query returns records within the trailing window, oldest first. A
// zero window returns the full ledger.
func (l *Ledger) Query(window time.Duration) []model.ActionRecord {
	var since time.Time
	if window > 0 {
		since = l.now().Add(-window)
	}
	recs, err := l.store.Query(since)
	if err != nil {
		logger.Error("failed to query action records", zap.Error(err))
		return nil
	}
	return recs
}

// Truncate drops records older than the keep window to bound growth.
func (l *Ledger) Truncate(keep time.Duration) {
	if err := l.store.Truncate(l.now().Add(-keep)); err != nil {
		logger.Error("failed to truncate action records", zap.Error(err))
	}
}

// Clear empties the ledger. Called on session teardown.
func (l *Ledger) Clear() {
	if err := l.store.Clear(); err != nil {
		logger.Error("failed to clear action records", zap.Error(err))
	}
}
