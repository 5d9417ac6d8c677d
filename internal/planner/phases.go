package planner

import (
	"time"

	"github.com/jonathan/talent-sourcer/internal/types"
)

// Phase identifies a stage of the run state machine. Transitions are
// strictly forward-only; Summary is terminal.
type Phase int

// Run phases, in execution order.
const (
	PhaseIntake Phase = iota
	PhasePlanning
	PhaseExploration
	PhaseSelection
	PhaseExploitation
	PhaseAnalysis
	PhaseSummary
)

var phaseNames = map[Phase]string{
	PhaseIntake:       "intake",
	PhasePlanning:     "planning",
	PhaseExploration:  "exploration",
	PhaseSelection:    "selection",
	PhaseExploitation: "exploitation",
	PhaseAnalysis:     "analysis",
	PhaseSummary:      "summary",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// phaseTracker accumulates per-phase statistics and enforces the
// forward-only transition rule.
type phaseTracker struct {
	current Phase
	entered time.Time
	stats   []types.PhaseStats
}

func newPhaseTracker() *phaseTracker {
	return &phaseTracker{current: PhaseIntake, entered: time.Now()}
}

// enter closes out the current phase's statistics and moves to the next
// one. Moving backwards or re-entering a phase is a bug, not a recoverable
// condition.
func (t *phaseTracker) enter(next Phase, closed types.PhaseStats) error {
	if next <= t.current {
		return &PhaseError{From: t.current, To: next}
	}
	closed.Phase = t.current.String()
	closed.Duration = time.Since(t.entered)
	t.stats = append(t.stats, closed)

	t.current = next
	t.entered = time.Now()
	return nil
}

// finish closes out the terminal phase.
func (t *phaseTracker) finish(closed types.PhaseStats) {
	closed.Phase = t.current.String()
	closed.Duration = time.Since(t.entered)
	t.stats = append(t.stats, closed)
}
