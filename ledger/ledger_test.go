package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/mohitgarg/socialflow/model"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type failingStore struct{}

func (failingStore) Append(model.ActionRecord) error { return errors.New("store down") }
func (failingStore) Query(time.Time) ([]model.ActionRecord, error) {
	return nil, errors.New("store down")
}
func (failingStore) Truncate(time.Time) error { return errors.New("store down") }
func (failingStore) Clear() error             { return errors.New("store down") }

func TestLedger_RecordAndQueryWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(NewInMemoryStore(), clock.Now)

	l.Record(model.ACTION_NAVIGATION, map[string]any{"url": "https://example.com"})
	clock.Advance(30 * time.Second)
	l.Record(model.ACTION_CLICK, nil)
	clock.Advance(45 * time.Second)
	l.Record(model.ACTION_TYPING, nil)

	all := l.Query(0)
	require.Len(t, all, 3)
	require.Equal(t, model.ACTION_NAVIGATION, all[0].Type)
	require.Equal(t, model.ACTION_TYPING, all[2].Type)

	// only the click and the typing fall inside the last minute
	lastMinute := l.Query(time.Minute)
	require.Len(t, lastMinute, 2)
	require.Equal(t, model.ACTION_CLICK, lastMinute[0].Type)
}

func TestLedger_StatsDerivedFromRecords(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(NewInMemoryStore(), clock.Now)

	for i := 0; i < 4; i++ {
		l.Record(model.ACTION_CLICK, nil)
		clock.Advance(10 * time.Second)
	}
	l.Record(model.ACTION_NAVIGATION, nil)

	stats := l.Stats()
	require.Equal(t, 5, stats.TotalActions)
	require.Equal(t, 5, stats.ActionsLastHour)
	require.Equal(t, 5, stats.ActionsLastMinute)
	require.Equal(t, 4, stats.ActionsByType[model.ACTION_CLICK])
	require.Equal(t, 1, stats.ActionsByType[model.ACTION_NAVIGATION])
	require.InDelta(t, 10000, stats.AverageActionIntervalMs, 1)
}

func TestLedger_StatsWindowsExcludeOldRecords(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(NewInMemoryStore(), clock.Now)

	l.Record(model.ACTION_CLICK, nil)
	clock.Advance(2 * time.Hour)
	l.Record(model.ACTION_CLICK, nil)
	clock.Advance(30 * time.Second)
	l.Record(model.ACTION_CLICK, nil)

	stats := l.Stats()
	require.Equal(t, 3, stats.TotalActions)
	require.Equal(t, 2, stats.ActionsLastHour)
	require.Equal(t, 1, stats.ActionsLastMinute)
}

func TestLedger_TruncateAndClear(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(NewInMemoryStore(), clock.Now)

	l.Record(model.ACTION_CLICK, nil)
	clock.Advance(time.Hour)
	l.Record(model.ACTION_CLICK, nil)

	l.Truncate(30 * time.Minute)
	require.Len(t, l.Query(0), 1)

	l.Clear()
	require.Empty(t, l.Query(0))
}

// Recording is a side effect and must never fail, even when the store
// does.
func TestLedger_RecordSwallowsStoreErrors(t *testing.T) {
	l := New(failingStore{})
	require.NotPanics(t, func() {
		l.Record(model.ACTION_CLICK, nil)
	})
	require.Nil(t, l.Query(0))
}
