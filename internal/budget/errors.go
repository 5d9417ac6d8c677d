// Package budget provides the shared rate-limit and credit governor that
// gates every outbound search call in a run.
package budget

import (
	"fmt"
	"time"
)

// ThrottleError indicates the rate ceiling wait bound was exceeded. The
// call is abandoned rather than queued indefinitely.
type ThrottleError struct {
	Waited time.Duration
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("rate limit throttle exceeded after waiting %s", e.Waited)
}

// CreditError indicates the credit budget cannot cover the requested cost.
// The budget is a hard ceiling, so credit exhaustion fails immediately
// without waiting.
type CreditError struct {
	Requested int
	Remaining int
}

func (e *CreditError) Error() string {
	return fmt.Sprintf("credit budget exhausted: requested %d, %d remaining", e.Requested, e.Remaining)
}
