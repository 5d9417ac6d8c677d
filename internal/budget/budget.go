// Package budget provides the shared rate-limit and credit governor that
// gates every outbound search call in a run.
package budget

import (
	"context"
	"sync"
	"time"
)

// Service billing and throttling constants.
const (
	// RateLimit is the service ceiling: no more than RateLimit calls in
	// any sliding RateWindow.
	RateLimit  = 60
	RateWindow = time.Minute

	// CreditsPerBlock credits are charged per RecordsPerBlock returned
	// records, rounded up for partial pages.
	CreditsPerBlock = 3
	RecordsPerBlock = 100

	// DefaultMaxWait bounds how long Reserve blocks on a full rate window
	// before giving up with a ThrottleError.
	DefaultMaxWait = 15 * time.Second
)

// PageCost returns the credit cost of a page with the given record count:
// 3 credits per 100 records, rounded up (1-100 records cost 3, 101-200
// cost 6, and so on).
func PageCost(records int) int {
	if records <= 0 {
		return 0
	}
	blocks := (records + RecordsPerBlock - 1) / RecordsPerBlock
	return blocks * CreditsPerBlock
}

// Governor is the single shared mutable budget for a run. Every call site
// must obtain a permit via Reserve before calling the service and settle it
// with exactly one Commit (or Abort) afterwards. Reserve-then-commit is
// atomic with respect to concurrent callers, so the credit cap can never be
// overrun.
type Governor struct {
	mu sync.Mutex

	creditsCap int
	consumed   int
	reserved   int // credits held by outstanding permits

	calls       []time.Time // settled call timestamps inside the window
	outstanding int         // permits issued but not yet settled

	maxWait time.Duration
	now     func() time.Time
}

// Option configures a Governor.
type Option func(*Governor)

// WithMaxWait overrides the bounded wait applied when the rate window is
// full.
func WithMaxWait(d time.Duration) Option {
	return func(g *Governor) { g.maxWait = d }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Governor) { g.now = now }
}

// NewGovernor creates a Governor with the given credit cap.
func NewGovernor(creditsCap int, opts ...Option) *Governor {
	g := &Governor{
		creditsCap: creditsCap,
		maxWait:    DefaultMaxWait,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Permit represents a successful reservation. It must be settled exactly
// once, via Commit or Abort.
type Permit struct {
	g         *Governor
	estimated int
	settled   bool
}

// Reserve checks the rolling rate window and the credit budget for the
// estimated cost of one call. On credit exhaustion it fails immediately
// with a *CreditError. On rate exhaustion it blocks until a slot frees, up
// to the configured wait bound, then fails with a *ThrottleError.
func (g *Governor) Reserve(ctx context.Context, estimatedCost int) (*Permit, error) {
	deadline := g.now().Add(g.maxWait)

	for {
		g.mu.Lock()
		now := g.now()
		g.expireLocked(now)

		if g.consumed+g.reserved+estimatedCost > g.creditsCap {
			remaining := g.creditsCap - g.consumed - g.reserved
			g.mu.Unlock()
			return nil, &CreditError{Requested: estimatedCost, Remaining: remaining}
		}

		if len(g.calls)+g.outstanding < RateLimit {
			g.reserved += estimatedCost
			g.outstanding++
			g.mu.Unlock()
			return &Permit{g: g, estimated: estimatedCost}, nil
		}

		// Window full: wait for the oldest in-window call to age out.
		var wait time.Duration
		if len(g.calls) > 0 {
			wait = g.calls[0].Add(RateWindow).Sub(now)
		} else {
			wait = 100 * time.Millisecond
		}
		g.mu.Unlock()

		if now.Add(wait).After(deadline) {
			return nil, &ThrottleError{Waited: g.maxWait}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Commit settles the permit with the actual returned page size, recording a
// call timestamp for rate accounting and charging credits for the records
// actually returned.
func (p *Permit) Commit(actualRecords int) {
	p.settle(PageCost(actualRecords))
}

// Abort settles the permit for a call that failed or was never answered:
// the attempt still occupies a rate slot, but no credits are charged.
func (p *Permit) Abort() {
	p.settle(0)
}

func (p *Permit) settle(cost int) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	if p.settled {
		return
	}
	p.settled = true
	p.g.reserved -= p.estimated
	p.g.outstanding--
	p.g.consumed += cost
	p.g.calls = append(p.g.calls, p.g.now())
}

// Remaining returns the credits still available for planning affordability
// checks: cap minus consumed minus outstanding reservations.
func (g *Governor) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creditsCap - g.consumed - g.reserved
}

// Consumed returns the credits charged so far.
func (g *Governor) Consumed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.consumed
}

// CallsInWindow returns the number of settled calls inside the current
// rate window.
func (g *Governor) CallsInWindow() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked(g.now())
	return len(g.calls)
}

// expireLocked drops call timestamps that have aged out of the window.
// Caller must hold g.mu.
func (g *Governor) expireLocked(now time.Time) {
	cutoff := now.Add(-RateWindow)
	i := 0
	for i < len(g.calls) && !g.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		g.calls = g.calls[i:]
	}
}
