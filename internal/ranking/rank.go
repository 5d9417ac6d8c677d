// Package ranking provides weighted candidate scoring with explainable
// rationale against a requirement set.
package ranking

import (
	"sort"

	"github.com/jonathan/talent-sourcer/internal/dedupe"
	"github.com/jonathan/talent-sourcer/internal/types"
)

// Rank scores every candidate against the requirements and returns them in
// descending score order. The sort is stable: candidates tying on score
// keep their original discovery (insertion) order. Corroboration maps a
// candidate key to the variants that surfaced it, as produced by the
// deduper.
func Rank(candidates []types.Candidate, corroboration map[string][]string, reqs *types.Requirements) []types.RankedCandidate {
	ranked := make([]types.RankedCandidate, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		variants := corroboration[dedupe.Key(c)]

		score, contribs, ceilingApplies := scoreCandidate(c, reqs, len(variants))

		// Clamp to [0,100], then apply the must-have ceiling: unmet
		// must-haves cap the score below the passing threshold instead of
		// excluding the candidate.
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		if ceilingApplies && score > mustHaveCeiling {
			score = mustHaveCeiling
		}

		ranked = append(ranked, types.RankedCandidate{
			Candidate: *c,
			Score:     score,
			Rationale: rationale(contribs),
			Variants:  variants,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// rationale orders contribution statements by descending contribution
// magnitude, one statement per dimension that moved the score. Statements
// with zero points (ceiling notes) sort last but are kept for
// explainability.
func rationale(contribs []contribution) []string {
	sorted := make([]contribution, len(contribs))
	copy(sorted, contribs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return abs(sorted[i].points) > abs(sorted[j].points)
	})

	statements := make([]string, 0, len(sorted))
	for _, c := range sorted {
		statements = append(statements, c.statement)
	}
	return statements
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
