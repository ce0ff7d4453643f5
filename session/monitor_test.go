package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/driver/dryrun"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/nav"
	"github.com/mohitgarg/socialflow/suspicion"
	"github.com/stretchr/testify/require"
)

func newTestMonitor() (*Monitor, *dryrun.Driver, *ledger.Ledger) {
	conf := config.Default()
	conf.Session.AuthCacheTTL = time.Minute
	drv := dryrun.New()
	l := ledger.New(ledger.NewInMemoryStore())
	det := suspicion.NewDetector(l, conf.Suspicion)
	var wg sync.WaitGroup
	return NewMonitor(drv, l, det, conf, &wg), drv, l
}

func TestStatus_HealthySession(t *testing.T) {
	m, drv, _ := newTestMonitor()
	drv.StubEvaluate("complete")

	status := m.Status(context.Background())
	require.True(t, status.IsActive)
	require.True(t, status.IsAuthenticated)
	require.True(t, status.IsHealthy)
	require.False(t, status.HumanBehavior.Assessment.IsSuspicious)
}

func TestStatus_DisconnectedSession(t *testing.T) {
	m, drv, _ := newTestMonitor()
	drv.Disconnect()

	status := m.Status(context.Background())
	require.False(t, status.IsActive)
	require.False(t, status.IsAuthenticated)
	require.False(t, status.IsHealthy)
}

// The authentication verdict is cached; back-to-back checks must not
// probe the page every time.
func TestStatus_AuthenticationProbeIsCached(t *testing.T) {
	m, drv, _ := newTestMonitor()
	m.Status(context.Background())
	m.Status(context.Background())
	m.Status(context.Background())
	require.Equal(t, 1, drv.CallCount("waitForSelector", nav.SelectorAuthenticatedNav))
}

func TestEnsure_HealthySessionIsANoop(t *testing.T) {
	m, drv, l := newTestMonitor()
	require.NoError(t, m.Ensure(context.Background()))
	require.Zero(t, drv.CallCount("connect", ""))
	require.Empty(t, l.Query(0))
}

func TestEnsure_RecoversDroppedConnection(t *testing.T) {
	m, drv, l := newTestMonitor()
	drv.Disconnect()

	require.NoError(t, m.Ensure(context.Background()))
	require.True(t, drv.IsConnected())
	require.Equal(t, 1, drv.CallCount("connect", ""))
	require.Equal(t, 1, drv.CallCount("navigate", "https://www.linkedin.com/feed/"))

	recs := l.Query(0)
	require.Len(t, recs, 1)
	require.Equal(t, model.ACTION_SESSION_RECOVERY, recs[0].Type)
}

// Recovery that reconnects but cannot re-authenticate must surface as
// an authentication failure, which stops any surrounding batch.
func TestEnsure_UnauthenticatedAfterRecovery(t *testing.T) {
	m, drv, l := newTestMonitor()
	drv.Disconnect()
	drv.SetMissing(nav.SelectorAuthenticatedNav)

	err := m.Ensure(context.Background())
	require.Error(t, err)
	require.Equal(t, driver.CODE_AUTHENTICATION, driver.CodeOf(err))
	require.Empty(t, l.Query(0))
}

// Ensure invalidates the cached verdict before re-checking, so a stale
// pre-recovery answer is never trusted.
func TestEnsure_InvalidatesAuthCache(t *testing.T) {
	m, drv, _ := newTestMonitor()
	m.Status(context.Background()) // warm the cache
	require.Equal(t, 1, drv.CallCount("waitForSelector", nav.SelectorAuthenticatedNav))

	drv.Disconnect()
	require.NoError(t, m.Ensure(context.Background()))
	require.Equal(t, 2, drv.CallCount("waitForSelector", nav.SelectorAuthenticatedNav))
}
