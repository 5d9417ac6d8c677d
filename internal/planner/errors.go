package planner

import "fmt"

// PlanError represents a fatal planning failure: the run cannot proceed
// without a valid strategy. It is distinct from the partial/degraded
// outcomes later phases produce, which end in a report rather than an
// error.
type PlanError struct {
	Message string
	Cause   error
}

func (e *PlanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("planning failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("planning failed: %s", e.Message)
}

func (e *PlanError) Unwrap() error {
	return e.Cause
}

// PhaseError represents an illegal phase transition. Phases are strictly
// forward-only with no re-entry.
type PhaseError struct {
	From Phase
	To   Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("illegal phase transition: %s -> %s", e.From, e.To)
}
