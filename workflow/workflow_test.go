package workflow

import (
	"time"

	"github.com/mohitgarg/socialflow/approval"
	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver/dryrun"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/nav"
	"github.com/mohitgarg/socialflow/pacing"
	"github.com/mohitgarg/socialflow/recovery"
	"github.com/mohitgarg/socialflow/suspicion"
)

// testEngine wires an orchestrator against the dryrun driver with all
// delays collapsed, so workflows run instantly.
type testEngine struct {
	orchestrator *Orchestrator
	driver       *dryrun.Driver
	ledger       *ledger.Ledger
	gate         *approval.Gate
	conf         config.Config
}

func newTestEngine(mutate ...func(*config.Config)) *testEngine {
	conf := config.Default()
	conf.HumanBehavior.EnableCoolingOff = false
	conf.HumanBehavior.MinActionDelay = 0
	conf.HumanBehavior.MaxActionDelay = 0
	conf.ErrorHandling.RetryBaseDelay = time.Millisecond
	conf.ErrorHandling.MaxRetryDelay = 2 * time.Millisecond
	conf.ScreenshotOnError = false
	for _, fn := range mutate {
		fn(&conf)
	}

	drv := dryrun.New()
	l := ledger.New(ledger.NewInMemoryStore())
	det := suspicion.NewDetector(l, conf.Suspicion)
	pc := pacing.NewController(drv, l, det, conf.HumanBehavior)
	handler := recovery.NewHandler(recovery.NewPolicy(conf.ErrorHandling), drv, conf)
	navigator := nav.NewNavigator(drv, pc, l, conf)

	var gate *approval.Gate
	if conf.RequireApproval {
		gate = approval.NewGate()
	}
	return &testEngine{
		orchestrator: NewOrchestrator(conf, drv, l, pc, det, handler, navigator, nil, gate),
		driver:       drv,
		ledger:       l,
		gate:         gate,
		conf:         conf,
	}
}

func stepNames(steps []model.WorkflowStep) []model.StepName {
	names := make([]model.StepName, len(steps))
	for i, s := range steps {
		names[i] = s.Step
	}
	return names
}

func statusOf(steps []model.WorkflowStep, name model.StepName) model.StepStatus {
	for _, s := range steps {
		if s.Step == name {
			return s.Status
		}
	}
	return ""
}
