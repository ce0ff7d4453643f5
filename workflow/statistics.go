package workflow

import (
	"strings"

	"github.com/mohitgarg/socialflow/model"
)

const workflowCompletedSuffix = "_workflow_completed"

// Statistics aggregates the ledger and the current suspicion
// assessment into the caller-facing statistics view.
func (o *Orchestrator) Statistics() model.WorkflowStatistics {
	stats := o.ledger.Stats()
	completed := make(map[string]int)
	for kind, count := range stats.ActionsByType {
		if strings.HasSuffix(string(kind), workflowCompletedSuffix) {
			completed[strings.TrimSuffix(string(kind), workflowCompletedSuffix)] = count
		}
	}
	return model.WorkflowStatistics{
		TotalActions:            stats.TotalActions,
		ActionsLastHour:         stats.ActionsLastHour,
		AverageActionIntervalMs: stats.AverageActionIntervalMs,
		WorkflowsCompleted:      completed,
		Assessment:              o.detector.Detect(),
	}
}
