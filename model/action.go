package model

import "time"

type ActionKind string

const ACTION_NAVIGATION ActionKind = "navigation"
const ACTION_CLICK ActionKind = "click"
const ACTION_TYPING ActionKind = "typing"
const ACTION_MOUSE_MOVE ActionKind = "mouse_move"
const ACTION_SCROLL ActionKind = "scroll"
const ACTION_SESSION_RECOVERY ActionKind = "session_recovery"
const ACTION_MESSAGE_WORKFLOW_COMPLETED ActionKind = "message_workflow_completed"
const ACTION_CONNECTION_WORKFLOW_COMPLETED ActionKind = "connection_workflow_completed"
const ACTION_POST_WORKFLOW_COMPLETED ActionKind = "post_workflow_completed"
const ACTION_BATCH_WORKFLOW_COMPLETED ActionKind = "batch_workflow_completed"

// ActionRecord is one entry of the activity ledger. Records are append
// only and never mutated after being written.
type ActionRecord struct {
	Type      ActionKind     `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ActivityStats is derived from the ledger on demand and never stored.
type ActivityStats struct {
	TotalActions            int                `json:"totalActions"`
	ActionsLastMinute       int                `json:"actionsLastMinute"`
	ActionsLastHour         int                `json:"actionsLastHour"`
	AverageActionIntervalMs float64            `json:"averageActionIntervalMs"`
	ActionsByType           map[ActionKind]int `json:"actionsByType"`
}

type PatternTag string

const PATTERN_RAPID_ACTIONS PatternTag = "rapid_actions"
const PATTERN_REPETITIVE_BEHAVIOR PatternTag = "repetitive_behavior"

// SuspicionAssessment is a point in time judgement of how automated the
// recent activity looks. Computed fresh on every check.
type SuspicionAssessment struct {
	IsSuspicious   bool         `json:"isSuspicious"`
	Patterns       []PatternTag `json:"patterns,omitempty"`
	Recommendation string       `json:"recommendation"`
}
