// Package agent wires one engine instance around one automation
// session: one ledger, one orchestrator, one monitor. Multiple
// independent sessions in a process mean multiple agents.
package agent

import (
	"context"
	"sync"

	"github.com/mohitgarg/socialflow/approval"
	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/ledger"
	ledgerredis "github.com/mohitgarg/socialflow/ledger/redis"
	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/nav"
	"github.com/mohitgarg/socialflow/pacing"
	"github.com/mohitgarg/socialflow/recovery"
	"github.com/mohitgarg/socialflow/session"
	"github.com/mohitgarg/socialflow/suspicion"
	"github.com/mohitgarg/socialflow/workflow"
	"go.uber.org/zap"
)

type Agent struct {
	Config       config.Config
	driver       driver.Driver
	ledger       *ledger.Ledger
	detector     *suspicion.Detector
	pacing       *pacing.Controller
	handler      *recovery.Handler
	navigator    *nav.Navigator
	gate         *approval.Gate
	monitor      *session.Monitor
	orchestrator *workflow.Orchestrator
	wg           sync.WaitGroup
	shutdown     bool
	shutdownLock sync.Mutex
}

func New(conf config.Config, drv driver.Driver) (*Agent, error) {
	a := &Agent{
		Config: conf,
		driver: drv,
	}
	setup := []func() error{
		a.setupLedger,
		a.setupDetector,
		a.setupPacing,
		a.setupRecovery,
		a.setupNavigator,
		a.setupApprovalGate,
		a.setupMonitor,
		a.setupOrchestrator,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupLedger() error {
	var store ledger.Store
	switch a.Config.LedgerType {
	case config.LEDGER_TYPE_REDIS:
		store = ledgerredis.NewStore(a.Config.RedisConfig)
	default:
		store = ledger.NewInMemoryStore()
	}
	a.ledger = ledger.New(store)
	return nil
}

func (a *Agent) setupDetector() error {
	a.detector = suspicion.NewDetector(a.ledger, a.Config.Suspicion)
	return nil
}

func (a *Agent) setupPacing() error {
	a.pacing = pacing.NewController(a.driver, a.ledger, a.detector, a.Config.HumanBehavior)
	return nil
}

func (a *Agent) setupRecovery() error {
	a.handler = recovery.NewHandler(recovery.NewPolicy(a.Config.ErrorHandling), a.driver, a.Config)
	return nil
}

func (a *Agent) setupNavigator() error {
	a.navigator = nav.NewNavigator(a.driver, a.pacing, a.ledger, a.Config)
	return nil
}

func (a *Agent) setupApprovalGate() error {
	if a.Config.RequireApproval {
		a.gate = approval.NewGate()
	}
	return nil
}

func (a *Agent) setupMonitor() error {
	a.monitor = session.NewMonitor(a.driver, a.ledger, a.detector, a.Config, &a.wg)
	return nil
}

func (a *Agent) setupOrchestrator() error {
	a.orchestrator = workflow.NewOrchestrator(a.Config, a.driver, a.ledger, a.pacing,
		a.detector, a.handler, a.navigator, a.monitor, a.gate)
	return nil
}

// Start connects the driver if needed and begins background health
// monitoring.
func (a *Agent) Start(ctx context.Context) error {
	if !a.driver.IsConnected() {
		if err := a.driver.Connect(ctx); err != nil {
			return err
		}
	}
	a.monitor.Start()
	logger.Info("agent started", zap.String("ledger", string(a.Config.LedgerType)))
	return nil
}

// Shutdown stops background work, drains it, and clears the ledger:
// action records live exactly as long as the session.
func (a *Agent) Shutdown() error {
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	a.monitor.Stop()
	a.wg.Wait()
	a.ledger.Clear()
	logger.Info("agent stopped")
	return nil
}

func (a *Agent) Orchestrator() *workflow.Orchestrator {
	return a.orchestrator
}

func (a *Agent) Monitor() *session.Monitor {
	return a.monitor
}

func (a *Agent) Gate() *approval.Gate {
	return a.gate
}

func (a *Agent) Ledger() *ledger.Ledger {
	return a.ledger
}
