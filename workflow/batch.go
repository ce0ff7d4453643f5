package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/recovery"
	"go.uber.org/zap"
)

// ExecuteBatchWorkflow runs the operations strictly in submitted
// order, one at a time, with pacing between items. One item's failure
// never aborts the rest unless the failure is classified as
// session-wide; in that case the remaining items are recorded as
// skipped rather than silently dropped. A batch never rejects: the
// result always accounts for every operation.
func (o *Orchestrator) ExecuteBatchWorkflow(ctx context.Context, operations []model.BatchOperation) *model.BatchResult {
	res := &model.BatchResult{
		BatchId:         uuid.New().String(),
		TotalOperations: len(operations),
		Successful:      []model.WorkflowResult{},
		Failed:          []model.BatchFailure{},
		Skipped:         []model.BatchSkip{},
		StartedAt:       o.ledger.Now(),
	}
	logger.Info("batch workflow started",
		zap.String("batchId", res.BatchId),
		zap.Int("operations", len(operations)))

	abortReason := ""
	for i, op := range operations {
		if abortReason != "" {
			res.Skipped = append(res.Skipped, model.BatchSkip{Operation: op, Reason: abortReason})
			continue
		}
		if err := ctx.Err(); err != nil {
			abortReason = fmt.Sprintf("batch cancelled: %v", err)
			res.Skipped = append(res.Skipped, model.BatchSkip{Operation: op, Reason: abortReason})
			continue
		}
		if i > 0 {
			if err := o.pacing.CheckAndApplyCooldown(ctx); err != nil {
				abortReason = fmt.Sprintf("batch cancelled: %v", err)
				res.Skipped = append(res.Skipped, model.BatchSkip{Operation: op, Reason: abortReason})
				continue
			}
		}

		result, err := o.dispatch(ctx, op)
		if err != nil {
			res.Failed = append(res.Failed, model.BatchFailure{Operation: op, Error: err.Error()})
			if o.handler.Policy().DecideFinal(err) == recovery.DECISION_STOP {
				abortReason = fmt.Sprintf("aborted after session-level failure: %v", err)
				logger.Error("batch aborted, remaining operations skipped",
					zap.String("batchId", res.BatchId),
					zap.Int("completed", i+1),
					zap.Error(err))
			}
			continue
		}
		res.Successful = append(res.Successful, result)
	}

	res.Summary = model.BatchSummary{
		SuccessCount: len(res.Successful),
		FailureCount: len(res.Failed),
		SkipCount:    len(res.Skipped),
	}
	res.CompletedAt = o.ledger.Now()
	o.ledger.Record(model.ACTION_BATCH_WORKFLOW_COMPLETED, map[string]any{
		"batchId":    res.BatchId,
		"operations": res.TotalOperations,
		"successes":  res.Summary.SuccessCount,
		"failures":   res.Summary.FailureCount,
		"skips":      res.Summary.SkipCount,
	})
	logger.Info("batch workflow completed",
		zap.String("batchId", res.BatchId),
		zap.Int("successes", res.Summary.SuccessCount),
		zap.Int("failures", res.Summary.FailureCount),
		zap.Int("skips", res.Summary.SkipCount))
	return res
}

func (o *Orchestrator) dispatch(ctx context.Context, op model.BatchOperation) (model.WorkflowResult, error) {
	switch op.Type {
	case model.BATCH_OP_MESSAGE:
		result, err := o.ExecuteMessagingWorkflow(ctx, op.ProfileId, op.Content)
		if err != nil {
			return nil, err
		}
		return result, nil
	case model.BATCH_OP_CONNECTION:
		result, err := o.ExecuteConnectionWorkflow(ctx, op.ProfileId, op.Content)
		if err != nil {
			return nil, err
		}
		return result, nil
	case model.BATCH_OP_POST:
		result, err := o.ExecutePostCreationWorkflow(ctx, op.Content, op.Media)
		if err != nil {
			return nil, err
		}
		return result, nil
	default:
		return nil, model.ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported batch operation type %q", op.Type)}
	}
}
