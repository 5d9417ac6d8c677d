// Package planner implements the six-phase search state machine that turns
// a requirement set into a ranked candidate list under rate and credit
// budgets.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-sourcer/internal/budget"
	"github.com/jonathan/talent-sourcer/internal/dedupe"
	"github.com/jonathan/talent-sourcer/internal/ranking"
	"github.com/jonathan/talent-sourcer/internal/search"
	"github.com/jonathan/talent-sourcer/internal/types"
)

// nearTieTolerance is the Selection policy constant: a runner-up variant is
// promoted alongside the top one when its quality signal is within this
// relative fraction of the top signal, hedging strategy risk on near-ties.
const nearTieTolerance = 0.05

// Defaults for planner options.
const (
	DefaultPhaseTimeout = 2 * time.Minute
	DefaultExploitPages = 2 // additional pages per selected variant
	DefaultPoolSize     = 3 // exploitation workers, well below the rate ceiling
)

// Options configures a Planner.
type Options struct {
	PhaseTimeout time.Duration
	ExploitPages int
	PoolSize     int
	Verbose      bool
}

// Planner coordinates a sourcing run end-to-end. It is stateless across
// runs: all mutable state is run-scoped and discarded at Summary, so a
// single Planner may serve concurrent runs.
type Planner struct {
	client search.Client
	opts   Options
}

// New creates a Planner issuing calls through the given client.
func New(client search.Client, opts Options) *Planner {
	if opts.PhaseTimeout == 0 {
		opts.PhaseTimeout = DefaultPhaseTimeout
	}
	if opts.ExploitPages == 0 {
		opts.ExploitPages = DefaultExploitPages
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = DefaultPoolSize
	}
	return &Planner{client: client, opts: opts}
}

// run holds all state for one run invocation.
type run struct {
	p        *Planner
	reqs     types.Requirements
	governor *budget.Governor
	cursors  *search.CursorManager
	variants []*Variant

	mu        sync.Mutex
	pages     []dedupe.Page
	seen      map[string]bool // aggregate deduplicated identity set
	calls     int
	failed    int
	found     int
	earlyStop string
}

// Run executes the full six-phase protocol and returns the run report.
// The only fatal errors are invalid requirements and a planning failure;
// everything later degrades to a partial report instead of failing the run.
func (p *Planner) Run(ctx context.Context, reqs *types.Requirements) (*types.RunReport, error) {
	started := time.Now()

	// Intake: validate and freeze the requirement set. No network calls.
	r := &run{p: p, reqs: *reqs, seen: make(map[string]bool)}
	r.reqs.ApplyDefaults()
	if err := r.reqs.Validate(); err != nil {
		return nil, &PlanError{Message: "invalid requirements", Cause: err}
	}
	r.governor = budget.NewGovernor(r.reqs.CreditsCap)
	r.cursors = search.NewCursorManager()

	tracker := newPhaseTracker()
	if err := tracker.enter(PhasePlanning, types.PhaseStats{}); err != nil {
		return nil, err
	}

	// Planning: materialize the three strategy variants. A filter
	// validation failure is fatal: the run cannot proceed without a valid
	// strategy.
	variants, err := buildVariants(&r.reqs)
	if err != nil {
		return nil, err
	}
	r.variants = variants
	r.logf("planned %d variants", len(variants))
	if err := tracker.enter(PhaseExploration, types.PhaseStats{}); err != nil {
		return nil, err
	}

	// Exploration: one page per variant, concurrently.
	exploreStats := r.explore(ctx)
	if err := tracker.enter(PhaseSelection, exploreStats); err != nil {
		return nil, err
	}

	// Selection: promote the best 1-2 surviving variants.
	selected := r.selectVariants()
	r.logf("selected %d variants", len(selected))
	if err := tracker.enter(PhaseExploitation, types.PhaseStats{}); err != nil {
		return nil, err
	}

	// Exploitation: focused pagination on the selected variants.
	exploitStats := r.exploit(ctx, selected)
	if err := tracker.enter(PhaseAnalysis, exploitStats); err != nil {
		return nil, err
	}

	// Analysis: deduplicate, apply exclusions, rank.
	merged := dedupe.Merge(r.pages)
	kept, excluded := dedupe.Exclude(merged.Candidates, r.reqs.ExcludeProfiles, r.reqs.ExcludeNames)
	ranked := ranking.Rank(kept, merged.Corroboration, &r.reqs)
	r.logf("analysis: %d raw, %d deduplicated, %d excluded", merged.TotalSeen, len(merged.Candidates), excluded)
	if err := tracker.enter(PhaseSummary, types.PhaseStats{CandidatesFound: len(kept)}); err != nil {
		return nil, err
	}

	// Summary: assemble the report from accumulated state.
	report := r.assembleReport(tracker, ranked, merged.TotalSeen, len(kept), started)
	return report, nil
}

// explore issues one page per variant under the phase deadline. A variant's
// API failure marks it failed and exploration continues; credit or throttle
// exhaustion aborts the phase early, moving on with whatever succeeded.
func (r *run) explore(ctx context.Context) types.PhaseStats {
	ctx, cancel := context.WithTimeout(ctx, r.p.opts.PhaseTimeout)
	defer cancel()

	callsBefore, failedBefore, foundBefore := r.snapshot()
	consumedBefore := r.governor.Consumed()

	g, gctx := errgroup.WithContext(ctx)
	for _, v := range r.variants {
		v := v
		g.Go(func() error {
			page, err := r.fetchPage(gctx, v)
			if err != nil {
				if reason := budgetStopReason(err); reason != "" {
					// Budget exhaustion ends the whole phase early.
					r.setEarlyStop(reason)
					return err
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					// The call never completed: a sibling's budget abort or
					// the phase deadline cancelled it. That is not a
					// failure of this variant's strategy.
					return nil
				}
				r.markFailed(v)
				r.logf("variant %s failed during exploration: %v", v.Name, err)
				return nil
			}
			signal := qualitySignal(page, &r.reqs)
			r.mu.Lock()
			v.QualitySignal = signal
			r.mu.Unlock()
			r.logf("variant %s: %d records, signal %.3f", v.Name, len(page), signal)
			return nil
		})
	}
	// The only propagated errors are budget aborts, already recorded as
	// the early-stop reason; the run proceeds to Selection regardless.
	_ = g.Wait()

	return r.phaseStats(callsBefore, failedBefore, foundBefore, consumedBefore)
}

// selectVariants ranks surviving variants by quality signal descending and
// promotes the top one, or the top two when the runner-up is within the
// near-tie tolerance. Ties break by result count, then original variant
// order. Zero survivors is not an error: the run proceeds to Analysis with
// whatever exploration gathered.
func (r *run) selectVariants() []*Variant {
	survivors := make([]*Variant, 0, len(r.variants))
	for _, v := range r.variants {
		if !v.Failed && v.PagesFetched > 0 {
			survivors = append(survivors, v)
		}
	}
	if len(survivors) == 0 {
		return nil
	}

	// Stable insertion sort keeps original variant order on full ties.
	for i := 1; i < len(survivors); i++ {
		for j := i; j > 0 && betterVariant(survivors[j], survivors[j-1]); j-- {
			survivors[j], survivors[j-1] = survivors[j-1], survivors[j]
		}
	}

	top := survivors[0]
	top.Selected = true
	selected := []*Variant{top}

	if len(survivors) > 1 {
		second := survivors[1]
		if second.QualitySignal >= top.QualitySignal*(1-nearTieTolerance) {
			second.Selected = true
			selected = append(selected, second)
		}
	}
	return selected
}

func betterVariant(a, b *Variant) bool {
	if a.QualitySignal != b.QualitySignal {
		return a.QualitySignal > b.QualitySignal
	}
	return a.ResultCount > b.ResultCount
}

// exploit pages forward on each selected variant through a bounded worker
// pool. A call failure stops only that variant; budget exhaustion or the
// phase deadline ends the phase with partial data.
func (r *run) exploit(ctx context.Context, selected []*Variant) types.PhaseStats {
	ctx, cancel := context.WithTimeout(ctx, r.p.opts.PhaseTimeout)
	defer cancel()

	callsBefore, failedBefore, foundBefore := r.snapshot()
	consumedBefore := r.governor.Consumed()

	pool, err := ants.NewPool(r.p.opts.PoolSize)
	if err != nil {
		// Degraded but not fatal: paginate sequentially.
		for _, v := range selected {
			r.exploitVariant(ctx, v)
		}
		return r.phaseStats(callsBefore, failedBefore, foundBefore, consumedBefore)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, v := range selected {
		if r.cursors.IsExhausted(v.Name) {
			// Exhausted during exploration; nothing left to page.
			continue
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			r.exploitVariant(ctx, v)
		}); err != nil {
			wg.Done()
		}
	}
	wg.Wait()

	return r.phaseStats(callsBefore, failedBefore, foundBefore, consumedBefore)
}

// exploitVariant runs one selected variant's pagination loop.
func (r *run) exploitVariant(ctx context.Context, v *Variant) {
	for page := 0; page < r.p.opts.ExploitPages; page++ {
		if r.governor.Remaining() <= 0 {
			r.setEarlyStop("credit budget exhausted")
			return
		}
		if r.dedupedCount() >= r.reqs.TargetCount {
			r.setEarlyStop("target count reached")
			return
		}
		if r.cursors.IsExhausted(v.Name) {
			r.markExhausted(v)
			return
		}

		if _, err := r.fetchPage(ctx, v); err != nil {
			if reason := budgetStopReason(err); reason != "" {
				r.setEarlyStop(reason)
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				r.setEarlyStop("phase deadline exceeded")
				return
			}
			// Any other failure retires only this variant's pagination.
			r.cursors.MarkExhausted(v.Name)
			r.markExhausted(v)
			r.logf("variant %s retired during exploitation: %v", v.Name, err)
			return
		}
	}
}

// fetchPage performs one governed search call for a variant and records the
// returned page. The reserve/commit pairing is the run's only interaction
// with the shared budget.
func (r *run) fetchPage(ctx context.Context, v *Variant) ([]types.Candidate, error) {
	cursor, err := r.cursors.Next(v.Name)
	if err != nil {
		return nil, err
	}

	permit, err := r.governor.Reserve(ctx, budget.PageCost(r.reqs.PageLimit))
	if err != nil {
		return nil, err
	}

	req := &search.Request{
		Filters:        v.Serialized,
		Limit:          r.reqs.PageLimit,
		Cursor:         cursor,
		PostProcessing: postProcessing(&r.reqs),
	}

	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	resp, err := r.p.client.Search(ctx, req)
	if err != nil {
		permit.Abort()
		r.mu.Lock()
		r.failed++
		r.mu.Unlock()
		return nil, err
	}
	permit.Commit(len(resp.Profiles))
	r.cursors.Advance(v.Name, resp.NextCursor)

	r.mu.Lock()
	v.PagesFetched++
	v.ResultCount += len(resp.Profiles)
	if resp.NextCursor == "" {
		v.Exhausted = true
	}
	r.found += len(resp.Profiles)
	r.pages = append(r.pages, dedupe.Page{Variant: v.Name, Candidates: resp.Profiles})
	for i := range resp.Profiles {
		if key := dedupe.Key(&resp.Profiles[i]); key != "" {
			r.seen[key] = true
		}
	}
	r.mu.Unlock()

	return resp.Profiles, nil
}

func postProcessing(reqs *types.Requirements) *search.PostProcessing {
	if len(reqs.ExcludeProfiles) == 0 && len(reqs.ExcludeNames) == 0 {
		return nil
	}
	return &search.PostProcessing{
		ExcludeProfiles: reqs.ExcludeProfiles,
		ExcludeNames:    reqs.ExcludeNames,
	}
}

// budgetStopReason maps budget exhaustion errors to early-stop reasons;
// other errors map to "".
func budgetStopReason(err error) string {
	var creditErr *budget.CreditError
	if errors.As(err, &creditErr) {
		return "credit budget exhausted"
	}
	var throttleErr *budget.ThrottleError
	if errors.As(err, &throttleErr) {
		return "rate limit throttle exceeded"
	}
	return ""
}

func (r *run) dedupedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func (r *run) setEarlyStop(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.earlyStop == "" {
		r.earlyStop = reason
	}
}

func (r *run) markFailed(v *Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.Failed = true
}

func (r *run) markExhausted(v *Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.Exhausted = true
}

func (r *run) snapshot() (calls, failed, found int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.failed, r.found
}

func (r *run) phaseStats(callsBefore, failedBefore, foundBefore, consumedBefore int) types.PhaseStats {
	calls, failed, found := r.snapshot()
	return types.PhaseStats{
		Calls:           calls - callsBefore,
		FailedCalls:     failed - failedBefore,
		CandidatesFound: found - foundBefore,
		CreditsSpent:    r.governor.Consumed() - consumedBefore,
	}
}

func (r *run) assembleReport(tracker *phaseTracker, ranked []types.RankedCandidate, totalSeen, dedupedCount int, started time.Time) *types.RunReport {
	tracker.finish(types.PhaseStats{})

	variantSummaries := make([]types.VariantSummary, 0, len(r.variants))
	for _, v := range r.variants {
		variantSummaries = append(variantSummaries, types.VariantSummary{
			Name:          v.Name,
			PagesFetched:  v.PagesFetched,
			ResultCount:   v.ResultCount,
			QualitySignal: v.QualitySignal,
			Selected:      v.Selected,
			Exhausted:     v.Exhausted,
			Failed:        v.Failed,
		})
	}

	calls, _, _ := r.snapshot()
	return &types.RunReport{
		RunID:              uuid.New(),
		RequirementSummary: summarizeRequirements(&r.reqs),
		StrategySummary: fmt.Sprintf(
			"%d exploration variants at 1 page each; best variants promoted for up to %d additional pages each; deduplication and weighted ranking",
			len(r.variants), r.p.opts.ExploitPages),
		Phases:            tracker.stats,
		Variants:          variantSummaries,
		TotalCalls:        calls,
		TotalCreditsSpent: r.governor.Consumed(),
		TotalFound:        totalSeen,
		DedupedCount:      dedupedCount,
		EarlyStopReason:   r.earlyStop,
		Ranked:            ranked,
		StartedAt:         started,
		FinishedAt:        time.Now(),
	}
}

func summarizeRequirements(reqs *types.Requirements) string {
	var parts []string
	if len(reqs.Titles) > 0 {
		parts = append(parts, "titles: "+strings.Join(reqs.Titles, ", "))
	}
	if len(reqs.MustHaveSkills) > 0 {
		parts = append(parts, "must-have: "+strings.Join(reqs.MustHaveSkills, ", "))
	}
	if len(reqs.NiceToHaveSkills) > 0 {
		parts = append(parts, "nice-to-have: "+strings.Join(reqs.NiceToHaveSkills, ", "))
	}
	if reqs.Region != "" {
		parts = append(parts, "region: "+reqs.Region)
	}
	parts = append(parts, fmt.Sprintf("experience: %d-%d years", reqs.MinExperience, reqs.MaxExperience))
	parts = append(parts, fmt.Sprintf("target: %d candidates, credits cap: %d", reqs.TargetCount, reqs.CreditsCap))
	return strings.Join(parts, "; ")
}

func (r *run) logf(format string, args ...any) {
	if r.p.opts.Verbose {
		log.Printf("[PLANNER] "+format, args...)
	}
}
