package model

import "fmt"

// AlreadyConnectedError is a terminal precondition failure for one
// profile: a connection already exists or an invitation is pending.
// Retrying cannot fix it; a batch skips the item and continues.
type AlreadyConnectedError struct {
	ProfileId string
}

func (e AlreadyConnectedError) Error() string {
	return fmt.Sprintf("connection with profile %s already exists or is pending", e.ProfileId)
}

// ValidationError marks caller input as unusable. Fatal for the item,
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ApprovalDeniedError is returned when the operator rejects a pending
// approval request for an irreversible step.
type ApprovalDeniedError struct {
	RequestId string
}

func (e ApprovalDeniedError) Error() string {
	return fmt.Sprintf("approval denied for request %s", e.RequestId)
}
