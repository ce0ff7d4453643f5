package redis

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/model"
	"github.com/stretchr/testify/require"
)

// Runs against a live redis only; point SOCIALFLOW_REDIS_ADDR at one to
// enable.
func newLiveStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("SOCIALFLOW_REDIS_ADDR")
	if addr == "" {
		t.Skip("SOCIALFLOW_REDIS_ADDR not set")
	}
	s := NewStore(config.RedisStorageConfig{
		Addrs:     strings.Split(addr, ","),
		Namespace: "socialflow-test",
	})
	require.NoError(t, s.Clear())
	t.Cleanup(func() {
		_ = s.Clear()
		_ = s.Close()
	})
	return s
}

func TestStore_AppendAndQuery(t *testing.T) {
	s := newLiveStore(t)
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(model.ActionRecord{
			Type:      model.ACTION_CLICK,
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Metadata:  map[string]any{"control": "connect"},
		}))
	}

	all, err := s.Query(time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, model.ACTION_CLICK, all[0].Type)
	require.Equal(t, "connect", all[0].Metadata["control"])

	recent, err := s.Query(base.Add(1500 * time.Millisecond))
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestStore_TruncateDropsOldRecords(t *testing.T) {
	s := newLiveStore(t)
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(model.ActionRecord{
			Type:      model.ACTION_NAVIGATION,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.Truncate(base.Add(2*time.Minute)))

	remaining, err := s.Query(time.Time{})
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	require.False(t, remaining[0].Timestamp.Before(base.Add(2*time.Minute)))
}

func TestStore_Clear(t *testing.T) {
	s := newLiveStore(t)
	require.NoError(t, s.Append(model.ActionRecord{Type: model.ACTION_CLICK, Timestamp: time.Now()}))
	require.NoError(t, s.Clear())
	recs, err := s.Query(time.Time{})
	require.NoError(t, err)
	require.Empty(t, recs)
}
