// Package workflow drives the messaging, connection, post-creation and
// batch workflows. Each workflow is a fixed sequence of steps; every
// step runs under the recovery handler's retry loop and is appended to
// the result's step list exactly once, in order.
package workflow

import (
	"context"

	"github.com/mohitgarg/socialflow/approval"
	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/nav"
	"github.com/mohitgarg/socialflow/pacing"
	"github.com/mohitgarg/socialflow/recovery"
	"github.com/mohitgarg/socialflow/session"
	"github.com/mohitgarg/socialflow/suspicion"
)

type Orchestrator struct {
	conf      config.Config
	driver    driver.Driver
	ledger    *ledger.Ledger
	pacing    *pacing.Controller
	detector  *suspicion.Detector
	handler   *recovery.Handler
	navigator *nav.Navigator
	monitor   *session.Monitor
	gate      *approval.Gate
}

func NewOrchestrator(
	conf config.Config,
	drv driver.Driver,
	l *ledger.Ledger,
	pc *pacing.Controller,
	det *suspicion.Detector,
	handler *recovery.Handler,
	navigator *nav.Navigator,
	monitor *session.Monitor,
	gate *approval.Gate,
) *Orchestrator {
	return &Orchestrator{
		conf:      conf,
		driver:    drv,
		ledger:    l,
		pacing:    pc,
		detector:  det,
		handler:   handler,
		navigator: navigator,
		monitor:   monitor,
		gate:      gate,
	}
}

// ensureSession verifies the browser session is alive and
// authenticated before a workflow starts, running recovery if needed.
func (o *Orchestrator) ensureSession(ctx context.Context) error {
	if o.monitor == nil {
		return nil
	}
	return o.monitor.Ensure(ctx)
}

// runStep executes one workflow step under the retry loop and appends
// its outcome to the step list. terminal steps confirm instead of
// complete. The step list is append only; nothing reorders it.
func (o *Orchestrator) runStep(ctx context.Context, steps *[]model.WorkflowStep, name model.StepName, terminal bool, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.handler.Run(ctx, string(name), fn); err != nil {
		*steps = append(*steps, model.WorkflowStep{Step: name, Status: model.STEP_FAILED})
		return err
	}
	status := model.STEP_COMPLETED
	if terminal {
		status = model.STEP_CONFIRMED
	}
	*steps = append(*steps, model.WorkflowStep{Step: name, Status: status})
	return nil
}

func skipStep(steps *[]model.WorkflowStep, name model.StepName) {
	*steps = append(*steps, model.WorkflowStep{Step: name, Status: model.STEP_SKIPPED})
}

// awaitApproval pauses before an irreversible step when the session is
// configured to require operator approval.
func (o *Orchestrator) awaitApproval(ctx context.Context, workflowId string, kind string, summary string) error {
	if !o.conf.RequireApproval || o.gate == nil {
		return nil
	}
	approved, err := o.gate.Wait(ctx, approval.Request{Id: workflowId, Kind: kind, Summary: summary})
	if err != nil {
		return err
	}
	if !approved {
		return model.ApprovalDeniedError{RequestId: workflowId}
	}
	return nil
}

// summarize truncates content for approval prompts and log lines.
func summarize(content string) string {
	const max = 80
	if len(content) <= max {
		return content
	}
	return content[:max] + "..."
}
