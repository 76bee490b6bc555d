package agent

import (
	"fmt"
	"strings"

	"github.com/jonathan/sponsor-finder/internal/config"
	"github.com/jonathan/sponsor-finder/internal/types"
)

// PreconditionError is returned when an action is dispatched before the
// state it depends on exists.
type PreconditionError struct {
	Action Action
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot run %s: %s", e.Action, e.Reason)
}

// RepeatedActionError is returned when the controller picks a data action twice.
type RepeatedActionError struct {
	Action Action
}

func (e *RepeatedActionError) Error() string {
	return fmt.Sprintf("action %s was already taken in this evaluation", e.Action)
}

// IncompleteWorkflowError is returned when done is chosen with results missing.
type IncompleteWorkflowError struct {
	Missing []string
}

func (e *IncompleteWorkflowError) Error() string {
	return fmt.Sprintf("controller exited before all data was collected (missing %s)", strings.Join(e.Missing, ", "))
}

// WorkflowExhaustedError is returned when the step budget runs out.
type WorkflowExhaustedError struct {
	Steps int
}

func (e *WorkflowExhaustedError) Error() string {
	return fmt.Sprintf("unable to complete evaluation after %d steps", e.Steps)
}

// DecisionError is returned when the controller model fails or answers with
// something other than a single known action.
type DecisionError struct {
	Raw     string
	Message string
	Cause   error
}

func (e *DecisionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid controller decision: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid controller decision: %s", e.Message)
}

func (e *DecisionError) Unwrap() error {
	return e.Cause
}

// RunError is returned by Evaluate for every failed run. It carries the log
// entries accumulated up to the failure.
type RunError struct {
	Logs []types.WorkflowLog
	Err  error
}

func (e *RunError) Error() string {
	return e.Err.Error()
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// errorKind names an error for metrics labels.
func errorKind(err error) string {
	switch err.(type) {
	case *PreconditionError:
		return "precondition"
	case *RepeatedActionError:
		return "repeated_action"
	case *IncompleteWorkflowError:
		return "incomplete"
	case *WorkflowExhaustedError:
		return "exhausted"
	case *DecisionError:
		return "decision"
	case *config.Error:
		return "config"
	default:
		return "tool"
	}
}
