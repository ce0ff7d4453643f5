package model

import "time"

type BatchOperationType string

const BATCH_OP_MESSAGE BatchOperationType = "message"
const BATCH_OP_CONNECTION BatchOperationType = "connection"
const BATCH_OP_POST BatchOperationType = "post"

// BatchOperation is one item of a batch request. It is supplied by the
// caller and read only to the engine. Which fields apply depends on
// Type: message and connection use ProfileId + Content, post uses
// Content + Media.
type BatchOperation struct {
	Type      BatchOperationType `json:"type"`
	ProfileId string             `json:"profileId,omitempty"`
	Content   string             `json:"content"`
	Media     []string           `json:"media,omitempty"`
}

type BatchFailure struct {
	Operation BatchOperation `json:"operation"`
	Error     string         `json:"error"`
}

type BatchSkip struct {
	Operation BatchOperation `json:"operation"`
	Reason    string         `json:"reason"`
}

type BatchSummary struct {
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
	SkipCount    int `json:"skipCount"`
}

// BatchResult always accounts for every submitted operation:
// SuccessCount+FailureCount+SkipCount == TotalOperations.
type BatchResult struct {
	BatchId         string           `json:"batchId"`
	TotalOperations int              `json:"totalOperations"`
	Successful      []WorkflowResult `json:"successful"`
	Failed          []BatchFailure   `json:"failed"`
	Skipped         []BatchSkip      `json:"skipped"`
	Summary         BatchSummary     `json:"summary"`
	StartedAt       time.Time        `json:"startedAt"`
	CompletedAt     time.Time        `json:"completedAt"`
}
