package planner

import (
	"strings"

	"github.com/jonathan/talent-sourcer/internal/types"
)

// qualitySignal estimates how promising a variant is from its single
// exploration page: the proportion of records satisfying all must-have
// constraints, weighted by employer and skill diversity. The signal drives
// Selection; an empty page scores zero.
func qualitySignal(page []types.Candidate, reqs *types.Requirements) float64 {
	if len(page) == 0 {
		return 0
	}

	satisfying := 0
	employers := make(map[string]bool)
	skills := make(map[string]bool)

	for i := range page {
		c := &page[i]
		if satisfiesMustHaves(c, reqs) {
			satisfying++
		}
		if name := c.CurrentEmployerName(); name != "" {
			employers[strings.ToLower(name)] = true
		}
		for _, s := range c.Skills {
			skills[strings.ToLower(s)] = true
		}
	}

	mustHaveRatio := float64(satisfying) / float64(len(page))
	diversity := diversityScore(len(employers), len(skills), len(page))

	return mustHaveRatio * (0.5 + 0.5*diversity)
}

// satisfiesMustHaves reports whether a candidate meets every must-have
// skill and sits inside the experience band.
func satisfiesMustHaves(c *types.Candidate, reqs *types.Requirements) bool {
	for _, want := range reqs.MustHaveSkills {
		if !hasSkill(c.Skills, want) {
			return false
		}
	}
	if c.YearsOfExperience < reqs.MinExperience {
		return false
	}
	if reqs.MaxExperience > 0 && c.YearsOfExperience > reqs.MaxExperience {
		return false
	}
	return true
}

func hasSkill(candidateSkills []string, want string) bool {
	wantLower := strings.ToLower(want)
	for _, s := range candidateSkills {
		if strings.Contains(strings.ToLower(s), wantLower) {
			return true
		}
	}
	return false
}

// diversityScore normalizes distinct-employer and distinct-skill counts
// against the page size into [0,1]. A page dominated by one employer or a
// narrow skill pool signals a low-value variant even when must-haves pass.
func diversityScore(distinctEmployers, distinctSkills, pageSize int) float64 {
	if pageSize == 0 {
		return 0
	}
	employerRatio := float64(distinctEmployers) / float64(pageSize)
	skillRatio := float64(distinctSkills) / float64(pageSize*3)
	if skillRatio > 1 {
		skillRatio = 1
	}
	return (employerRatio + skillRatio) / 2
}
