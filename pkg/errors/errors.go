package errors

import (
	"fmt"

	"github.com/jafarshop/productconsole/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrConflict is returned when there's a conflict (e.g. a record replaced mid-flight)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrValidation is returned when a request is malformed
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// Precondition reasons reported before any network call is attempted.
const (
	ReasonNoAccount         = "no account available"
	ReasonMissingProductID  = "missing product id"
	ReasonOperationInFlight = "another operation is in flight"
	ReasonNoRecord          = "no product loaded"
)

// ErrPrecondition is a local guard rejection. No network call was made.
type ErrPrecondition struct {
	Reason string
}

func (e *ErrPrecondition) Error() string {
	if e.Reason != "" {
		return "precondition failed: " + e.Reason
	}
	return "precondition failed"
}

// ErrTransport is returned when a call to the catalog backend or Shopify failed
// or returned success=false. Message carries the server-supplied text, if any.
type ErrTransport struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *ErrTransport) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s failed: status %d", e.Op, e.Status)
	}
	return e.Op + " failed"
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the console user: the server message
// when there is one, otherwise the given fallback.
func (e *ErrTransport) UserMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// ErrInvalidStateTransition is returned when an invalid workflow state transition is attempted
type ErrInvalidStateTransition struct {
	From domain.WorkflowState
	To   domain.WorkflowState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}
