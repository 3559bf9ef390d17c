package domain

import "strings"

// WorkflowState is the state of an edit session's workflow
type WorkflowState string

const (
	WorkflowStateIdle             WorkflowState = "IDLE"
	WorkflowStateResolvingAccount WorkflowState = "RESOLVING_ACCOUNT"
	WorkflowStateLoadingRecord    WorkflowState = "LOADING_RECORD"
	WorkflowStateReady            WorkflowState = "READY"
	WorkflowStateValidating       WorkflowState = "VALIDATING"
	WorkflowStateCommitting       WorkflowState = "COMMITTING"
)

// IsValid checks if the workflow state is known
func (s WorkflowState) IsValid() bool {
	switch s {
	case WorkflowStateIdle,
		WorkflowStateResolvingAccount,
		WorkflowStateLoadingRecord,
		WorkflowStateReady,
		WorkflowStateValidating,
		WorkflowStateCommitting:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a transition from current state to target state is valid.
// Validating and Committing always return to Ready, on success and on failure.
func (s WorkflowState) CanTransitionTo(target WorkflowState) bool {
	transitions := map[WorkflowState][]WorkflowState{
		WorkflowStateIdle: {
			WorkflowStateResolvingAccount,
			WorkflowStateLoadingRecord,
			WorkflowStateReady,
		},
		WorkflowStateResolvingAccount: {
			WorkflowStateLoadingRecord,
			WorkflowStateReady,
		},
		WorkflowStateLoadingRecord: {
			WorkflowStateReady,
		},
		WorkflowStateReady: {
			WorkflowStateLoadingRecord,
			WorkflowStateValidating,
			WorkflowStateCommitting,
			WorkflowStateReady,
		},
		WorkflowStateValidating: {
			WorkflowStateReady,
		},
		WorkflowStateCommitting: {
			WorkflowStateReady,
		},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Issue levels as sent by the validator
const (
	IssueLevelOK      = "OK"
	IssueLevelWarning = "WARNING"
	IssueLevelWarn    = "WARN"
	IssueLevelError   = "ERROR"
)

// Severity is the display bucket of a validation issue level
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityBlocking Severity = "error"
)

// SeverityForLevel maps an issue level to its display bucket. Every level maps
// to exactly one bucket; unknown levels are blocking.
func SeverityForLevel(level string) Severity {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case IssueLevelOK:
		return SeverityInfo
	case IssueLevelWarning, IssueLevelWarn:
		return SeverityWarning
	default:
		return SeverityBlocking
	}
}

// CommitStatus is the outcome recorded in the commit journal
type CommitStatus string

const (
	CommitStatusSuccess CommitStatus = "SUCCESS"
	CommitStatusFailed  CommitStatus = "FAILED"
)

// IsValid checks if the commit status is valid
func (s CommitStatus) IsValid() bool {
	return s == CommitStatusSuccess || s == CommitStatusFailed
}
