// Package dedupe merges candidate pages from all search variants into a
// single deduplicated set with per-candidate variant corroboration.
package dedupe

import (
	"strings"

	"github.com/jonathan/talent-sourcer/internal/types"
)

// Page is one page of raw results attributed to the variant that fetched it.
type Page struct {
	Variant    string
	Candidates []types.Candidate
}

// Result is the deduplicated candidate set. Candidates preserves first-seen
// (insertion) order; Corroboration maps a candidate key to the ordered list
// of variants that surfaced it.
type Result struct {
	Candidates    []types.Candidate
	Corroboration map[string][]string
	TotalSeen     int
}

// Key returns the identity key for a candidate: the unique person ID, with
// the profile URL as fallback for records missing one.
func Key(c *types.Candidate) string {
	if c.PersonID != "" {
		return c.PersonID
	}
	return c.ProfileURL
}

// Merge folds all pages from all variants, keyed by candidate identity.
// The first occurrence wins for the stored profile; later sightings only
// add variant corroboration. The output never contains two records sharing
// an identifier.
func Merge(pages []Page) *Result {
	result := &Result{Corroboration: make(map[string][]string)}
	seen := make(map[string]bool)

	for _, page := range pages {
		for _, candidate := range page.Candidates {
			key := Key(&candidate)
			if key == "" {
				// Unidentifiable record; keep it but it cannot corroborate.
				result.TotalSeen++
				result.Candidates = append(result.Candidates, candidate)
				continue
			}

			result.TotalSeen++
			if !seen[key] {
				seen[key] = true
				result.Candidates = append(result.Candidates, candidate)
			}
			if !containsString(result.Corroboration[key], page.Variant) {
				result.Corroboration[key] = append(result.Corroboration[key], page.Variant)
			}
		}
	}

	return result
}

// Exclude filters out candidates matching the post-processing exclusion
// lists (profile URLs and names, case-insensitive). Returns the kept
// candidates and the number excluded.
func Exclude(candidates []types.Candidate, excludeProfiles, excludeNames []string) ([]types.Candidate, int) {
	if len(excludeProfiles) == 0 && len(excludeNames) == 0 {
		return candidates, 0
	}

	profiles := lowerSet(excludeProfiles)
	names := lowerSet(excludeNames)

	kept := make([]types.Candidate, 0, len(candidates))
	excluded := 0
	for _, c := range candidates {
		if profiles[strings.ToLower(c.ProfileURL)] || names[strings.ToLower(c.Name)] {
			excluded++
			continue
		}
		kept = append(kept, c)
	}
	return kept, excluded
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[strings.ToLower(v)] = true
		}
	}
	return set
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
