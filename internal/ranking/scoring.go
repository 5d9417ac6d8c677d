// Package ranking provides weighted candidate scoring with explainable
// rationale against a requirement set.
package ranking

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/talent-sourcer/internal/types"
)

// Default weights for scoring dimensions.
const (
	titleMatchPoints    = 20 // full target title appears in current title
	roleTermPoints      = 15 // core role term only
	mustHaveSkillPoints = 8  // per must-have skill present
	niceToHavePoints    = 3  // per nice-to-have skill present
	experienceFitPoints = 10 // years within target band
	companySizePoints   = 10 // headcount within target band
	industryPoints      = 5  // current employer in a target industry
	regionExactPoints   = 10
	regionApproxPoints  = 5
	recencyPoints       = 5   // current role started within ~3 years
	corroborationPoints = 2   // per additional variant that surfaced the candidate
	exclusionPenalty    = 100 // excluded current employer

	// skillCap bounds how many skills of each class contribute points.
	skillCap = 10

	// mustHaveCeiling caps the final score of candidates missing any
	// must-have skill below the passing threshold. They stay in the
	// output with an explicit rationale rather than being excluded.
	mustHaveCeiling = 49

	// recencyHorizon is how far back a current role may have started to
	// still earn the recency bonus.
	recencyHorizon = 3 * 365 * 24 * time.Hour
)

// contribution is one dimension's effect on a candidate's score.
type contribution struct {
	points    int
	statement string
}

// scoreCandidate computes the raw (unclamped) score and the per-dimension
// contributions for a candidate. ceilingApplies reports whether the
// must-have ceiling must cap the final score.
func scoreCandidate(c *types.Candidate, reqs *types.Requirements, corroborating int) (score int, contribs []contribution, ceilingApplies bool) {
	add := func(points int, statement string) {
		if points == 0 {
			return
		}
		score += points
		contribs = append(contribs, contribution{points: points, statement: statement})
	}

	// Title / role match.
	title := c.CurrentTitle()
	if matched, full := matchTitle(title, reqs.Titles); matched {
		if full {
			add(titleMatchPoints, fmt.Sprintf("Strong title match: %s", title))
		} else {
			add(roleTermPoints, fmt.Sprintf("Role term match: %s", title))
		}
	}

	// Must-have skill coverage.
	matchedMust := matchSkills(c.Skills, reqs.MustHaveSkills)
	if len(matchedMust) > 0 {
		counted := len(matchedMust)
		if counted > skillCap {
			counted = skillCap
		}
		add(counted*mustHaveSkillPoints, fmt.Sprintf("Must-have skills: %s", joinCapped(matchedMust, 3)))
	}
	if len(matchedMust) < len(reqs.MustHaveSkills) {
		ceilingApplies = true
		missing := missingSkills(reqs.MustHaveSkills, matchedMust)
		contribs = append(contribs, contribution{
			statement: fmt.Sprintf("Missing must-have skills (%s): score capped at %d", joinCapped(missing, 3), mustHaveCeiling),
		})
	}

	// Nice-to-have skill coverage.
	if matchedNice := matchSkills(c.Skills, reqs.NiceToHaveSkills); len(matchedNice) > 0 {
		counted := len(matchedNice)
		if counted > skillCap {
			counted = skillCap
		}
		add(counted*niceToHavePoints, fmt.Sprintf("Nice-to-have skills: %s", joinCapped(matchedNice, 3)))
	}

	// Experience fit.
	expPoints := experienceScore(c.YearsOfExperience, reqs.MinExperience, reqs.MaxExperience)
	switch {
	case expPoints == experienceFitPoints:
		add(expPoints, fmt.Sprintf("%d years of experience, within %d-%d target band", c.YearsOfExperience, reqs.MinExperience, reqs.MaxExperience))
	case c.YearsOfExperience > reqs.MaxExperience && reqs.MaxExperience > 0:
		add(expPoints, fmt.Sprintf("%d years of experience, above target band", c.YearsOfExperience))
	default:
		add(expPoints, fmt.Sprintf("%d years of experience, below %d year minimum", c.YearsOfExperience, reqs.MinExperience))
	}

	// Company size band.
	if reqs.CompanySizeMax > 0 || reqs.CompanySizeMin > 0 {
		headcount := c.CurrentHeadcount()
		maxSize := reqs.CompanySizeMax
		if maxSize == 0 {
			maxSize = int(^uint(0) >> 1)
		}
		if headcount >= reqs.CompanySizeMin && headcount <= maxSize {
			add(companySizePoints, fmt.Sprintf("Company size in target band (%d employees)", headcount))
		}
	}

	// Industry alignment.
	if industry := matchIndustry(c.CurrentIndustries(), reqs.TargetIndustries); industry != "" {
		add(industryPoints, fmt.Sprintf("Target industry: %s", industry))
	}

	// Region match.
	switch regionMatch(c.Region, reqs.Region) {
	case regionExact:
		add(regionExactPoints, fmt.Sprintf("Exact region match: %s", c.Region))
	case regionApprox:
		add(regionApproxPoints, fmt.Sprintf("Approximate region match: %s", c.Region))
	}

	// Recency of the current role.
	if isRecentRole(c) {
		add(recencyPoints, "Current role started within the last 3 years")
	}

	// Multi-variant corroboration.
	if corroborating > 1 {
		add((corroborating-1)*corroborationPoints, fmt.Sprintf("Surfaced by %d search variants", corroborating))
	}

	// Excluded current employer.
	if employer := c.CurrentEmployerName(); employer != "" && containsFold(reqs.ExcludeCompanies, employer) {
		add(-exclusionPenalty, fmt.Sprintf("Current employer excluded: %s", employer))
	}

	return score, contribs, ceilingApplies
}

// matchTitle reports whether any target title matches the candidate's
// current title, and whether the match was a full title rather than only
// the core role term.
func matchTitle(current string, targets []string) (matched, full bool) {
	if current == "" {
		return false, false
	}
	currentLower := strings.ToLower(current)
	for _, target := range targets {
		if target == "" {
			continue
		}
		if strings.Contains(currentLower, strings.ToLower(target)) {
			return true, true
		}
	}
	// Fall back to the core role term: the last token of the target title
	// ("Engineer" in "Senior Software Engineer").
	for _, target := range targets {
		fields := strings.Fields(strings.ToLower(target))
		if len(fields) == 0 {
			continue
		}
		if strings.Contains(currentLower, fields[len(fields)-1]) {
			return true, false
		}
	}
	return false, false
}

// matchSkills returns the requirement skills present in the candidate's
// skill set (case-insensitive containment).
func matchSkills(candidateSkills, wanted []string) []string {
	if len(wanted) == 0 || len(candidateSkills) == 0 {
		return nil
	}
	var matched []string
	for _, w := range wanted {
		wLower := strings.ToLower(w)
		for _, s := range candidateSkills {
			if strings.Contains(strings.ToLower(s), wLower) {
				matched = append(matched, w)
				break
			}
		}
	}
	return matched
}

func missingSkills(wanted, matched []string) []string {
	matchedSet := make(map[string]bool, len(matched))
	for _, m := range matched {
		matchedSet[strings.ToLower(m)] = true
	}
	var missing []string
	for _, w := range wanted {
		if !matchedSet[strings.ToLower(w)] {
			missing = append(missing, w)
		}
	}
	return missing
}

// experienceScore awards full points inside the band and applies a linear
// per-year penalty outside it, gentler above the band than below.
func experienceScore(years, minYears, maxYears int) int {
	if maxYears <= 0 {
		maxYears = 100
	}
	if years >= minYears && years <= maxYears {
		return experienceFitPoints
	}
	if years > maxYears {
		points := 3 - 2*(years-maxYears-1)
		if points < -experienceFitPoints {
			points = -experienceFitPoints
		}
		return points
	}
	points := -4 - 2*(minYears-years-1)
	if points < -experienceFitPoints {
		points = -experienceFitPoints
	}
	return points
}

func matchIndustry(industries, targets []string) string {
	for _, target := range targets {
		targetLower := strings.ToLower(target)
		for _, industry := range industries {
			if strings.Contains(strings.ToLower(industry), targetLower) {
				return industry
			}
		}
	}
	return ""
}

type regionMatchKind int

const (
	regionNone regionMatchKind = iota
	regionApprox
	regionExact
)

// regionMatch distinguishes an exact region string match from an
// approximate (same metro) one; containment either way counts as
// approximate.
func regionMatch(candidateRegion, targetRegion string) regionMatchKind {
	if candidateRegion == "" || targetRegion == "" {
		return regionNone
	}
	cLower := strings.ToLower(candidateRegion)
	tLower := strings.ToLower(targetRegion)
	if cLower == tLower {
		return regionExact
	}
	if strings.Contains(cLower, tLower) || strings.Contains(tLower, cLower) {
		return regionApprox
	}
	return regionNone
}

// isRecentRole reports whether the candidate's current role started within
// the recency horizon. Unparseable or absent dates earn no bonus.
func isRecentRole(c *types.Candidate) bool {
	if len(c.CurrentEmployers) == 0 {
		return false
	}
	startDate := c.CurrentEmployers[0].StartDate
	if startDate == "" {
		return false
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		start, err = time.Parse("2006-01", startDate)
		if err != nil {
			return false
		}
	}
	return time.Since(start) <= recencyHorizon
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func joinCapped(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
