// Package session tracks whether the browser session behind the engine
// is alive and authenticated, and re-establishes it when the connection
// drops. Recovery takes observable time; workflows re-check
// authentication through Ensure before resuming.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/nav"
	"github.com/mohitgarg/socialflow/suspicion"
	"github.com/mohitgarg/socialflow/util"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const authCacheKey = "authenticated"
const probeTimeout = 5 * time.Second

type Monitor struct {
	driver      driver.Driver
	ledger      *ledger.Ledger
	detector    *suspicion.Detector
	conf        config.Config
	statusCache *c.Cache
	tick        *util.TickWorker
	mu          sync.Mutex
}

func NewMonitor(drv driver.Driver, l *ledger.Ledger, det *suspicion.Detector, conf config.Config, wg *sync.WaitGroup) *Monitor {
	m := &Monitor{
		driver:      drv,
		ledger:      l,
		detector:    det,
		conf:        conf,
		statusCache: c.New(conf.Session.AuthCacheTTL, time.Minute),
	}
	m.tick = util.NewTickWorker("session-monitor", conf.Session.HealthCheckInterval, m.healthCheck, wg)
	return m
}

func (m *Monitor) Start() {
	m.tick.Start()
}

func (m *Monitor) Stop() {
	m.tick.Stop()
}

// Status reports the current session state together with the activity
// stats and suspicion assessment feeding the pacing decisions.
func (m *Monitor) Status(ctx context.Context) model.SessionStatus {
	status := model.SessionStatus{
		IsActive: m.driver.IsConnected(),
		HumanBehavior: model.HumanBehaviorStatus{
			Stats:      m.ledger.Stats(),
			Assessment: m.detector.Detect(),
		},
	}
	if status.IsActive {
		status.IsAuthenticated = m.isAuthenticated(ctx)
		status.IsHealthy = m.isResponsive(ctx)
	}
	return status
}

// Ensure verifies the session is usable and runs the recovery path if
// it is not. Callers must treat this as potentially slow.
func (m *Monitor) Ensure(ctx context.Context) error {
	if m.driver.IsConnected() && m.isAuthenticated(ctx) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have recovered while we waited for the lock
	if m.driver.IsConnected() && m.isAuthenticated(ctx) {
		return nil
	}

	if !m.driver.IsConnected() {
		logger.Warn("browser connection dropped, recovering session")
		if err := m.driver.Connect(ctx); err != nil {
			return fmt.Errorf("re-establish browser connection: %w", err)
		}
		homeURL := strings.TrimRight(m.conf.BaseURL, "/") + nav.FeedPath
		opts := driver.NavigateOptions{WaitUntil: "networkidle2", Timeout: m.conf.NavigationTimeout}
		if err := m.driver.Navigate(ctx, homeURL, opts); err != nil {
			return fmt.Errorf("navigate after recovery: %w", err)
		}
	}

	m.statusCache.Delete(authCacheKey)
	if !m.isAuthenticated(ctx) {
		return driver.NewError(driver.CODE_AUTHENTICATION, "session", "",
			errors.New("session is not authenticated after recovery"))
	}
	m.ledger.Record(model.ACTION_SESSION_RECOVERY, nil)
	logger.Info("session recovered")
	return nil
}

// isAuthenticated probes for the authenticated navigation chrome. The
// verdict is cached briefly so back-to-back workflow steps do not probe
// the page on every call.
func (m *Monitor) isAuthenticated(ctx context.Context) bool {
	if v, found := m.statusCache.Get(authCacheKey); found {
		return v.(bool)
	}
	_, err := m.driver.WaitForSelector(ctx, nav.SelectorAuthenticatedNav, driver.WaitOptions{Timeout: probeTimeout})
	authenticated := err == nil
	if err != nil && driver.CodeOf(err) != driver.CODE_ELEMENT_NOT_FOUND {
		logger.Warn("authentication probe failed", zap.Error(err))
	}
	m.statusCache.Set(authCacheKey, authenticated, c.DefaultExpiration)
	return authenticated
}

func (m *Monitor) isResponsive(ctx context.Context) bool {
	v, err := m.driver.Evaluate(ctx, "document.readyState")
	if err != nil {
		return false
	}
	if state, ok := v.(string); ok {
		return state == "complete" || state == "interactive"
	}
	return true
}

// healthCheck runs on the background ticker and logs degradation; it
// deliberately does not trigger recovery, workflows do that through
// Ensure at a safe point.
func (m *Monitor) healthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout*2)
	defer cancel()
	status := m.Status(ctx)
	if !status.IsActive {
		logger.Warn("session health check: browser connection is down")
		return
	}
	if !status.IsAuthenticated {
		logger.Warn("session health check: session is not authenticated")
	}
	if status.HumanBehavior.Assessment.IsSuspicious {
		logger.Warn("session health check: activity pattern looks suspicious",
			zap.Any("patterns", status.HumanBehavior.Assessment.Patterns))
	}
	if max := m.conf.Session.MaxActionsPerSession; max > 0 && status.HumanBehavior.Stats.TotalActions > max {
		logger.Warn("session health check: session action budget exceeded",
			zap.Int("totalActions", status.HumanBehavior.Stats.TotalActions),
			zap.Int("budget", max))
	}
}
