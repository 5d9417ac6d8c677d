package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-sourcer/internal/types"
)

func baseRequirements() *types.Requirements {
	return &types.Requirements{
		Titles:           []string{"Backend Engineer"},
		MustHaveSkills:   []string{"Go"},
		NiceToHaveSkills: []string{"Kubernetes"},
		Region:           "Berlin",
		MinExperience:    3,
		MaxExperience:    10,
	}
}

func TestRank_DescendingOrder(t *testing.T) {
	candidates := []types.Candidate{
		{PersonID: "weak", YearsOfExperience: 1},
		{
			PersonID:          "strong",
			Region:            "Berlin",
			YearsOfExperience: 5,
			Skills:            []string{"Go", "Kubernetes"},
			CurrentEmployers:  []types.Employer{{Title: "Backend Engineer"}},
		},
		{
			PersonID:          "middling",
			YearsOfExperience: 5,
			Skills:            []string{"Go"},
		},
	}

	ranked := Rank(candidates, nil, baseRequirements())

	require.Len(t, ranked, 3)
	assert.Equal(t, "strong", ranked[0].Candidate.PersonID)
	assert.Equal(t, "middling", ranked[1].Candidate.PersonID)
	assert.Equal(t, "weak", ranked[2].Candidate.PersonID)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	// Identical profiles tie exactly; discovery order must be preserved.
	identical := func(id string) types.Candidate {
		return types.Candidate{
			PersonID:          id,
			YearsOfExperience: 5,
			Skills:            []string{"Go"},
		}
	}
	candidates := []types.Candidate{
		identical("first"), identical("second"), identical("third"),
	}

	ranked := Rank(candidates, nil, baseRequirements())

	require.Len(t, ranked, 3)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, ranked[1].Score, ranked[2].Score)
	assert.Equal(t, "first", ranked[0].Candidate.PersonID)
	assert.Equal(t, "second", ranked[1].Candidate.PersonID)
	assert.Equal(t, "third", ranked[2].Candidate.PersonID)
}

func TestRank_ScoreClampedToRange(t *testing.T) {
	reqs := baseRequirements()
	reqs.ExcludeCompanies = []string{"Acme Corp"}
	reqs.CompanySizeMin = 100
	reqs.CompanySizeMax = 1000
	reqs.TargetIndustries = []string{"Fintech"}

	candidates := []types.Candidate{
		// Heavily penalized: excluded employer and no experience.
		{PersonID: "floor", CurrentEmployers: []types.Employer{{Name: "Acme Corp"}}},
		// Everything matches, plus corroboration.
		{
			PersonID:          "ceiling",
			Region:            "Berlin",
			YearsOfExperience: 5,
			Skills:            []string{"Go", "Kubernetes"},
			CurrentEmployers: []types.Employer{{
				Name:       "Upstart GmbH",
				Title:      "Backend Engineer",
				Headcount:  500,
				Industries: []string{"Fintech"},
			}},
		},
	}
	corroboration := map[string][]string{
		"ceiling": {"skills-emphasis", "title-emphasis", "company-emphasis"},
	}

	ranked := Rank(candidates, corroboration, reqs)

	for _, rc := range ranked {
		assert.GreaterOrEqual(t, rc.Score, 0)
		assert.LessOrEqual(t, rc.Score, 100)
	}
	assert.Equal(t, "ceiling", ranked[0].Candidate.PersonID)
	assert.Equal(t, 0, ranked[1].Score)
}

func TestRank_MustHaveCeiling(t *testing.T) {
	reqs := baseRequirements()
	reqs.MustHaveSkills = []string{"Go", "Kubernetes", "Postgres"}

	candidates := []types.Candidate{
		// Strong everywhere except one missing must-have skill.
		{
			PersonID:          "capped",
			Region:            "Berlin",
			YearsOfExperience: 5,
			Skills:            []string{"Go", "Kubernetes"},
			CurrentEmployers:  []types.Employer{{Title: "Backend Engineer"}},
		},
	}

	ranked := Rank(candidates, nil, reqs)

	require.Len(t, ranked, 1)
	assert.LessOrEqual(t, ranked[0].Score, 49)
	assert.NotEmpty(t, ranked[0].Rationale, "capped candidates keep an explanatory rationale")
}

func TestRank_RationaleOrderedByMagnitude(t *testing.T) {
	candidates := []types.Candidate{
		{
			PersonID:          "p1",
			Region:            "Berlin",
			YearsOfExperience: 5,
			Skills:            []string{"Go", "Kubernetes"},
			CurrentEmployers:  []types.Employer{{Title: "Backend Engineer"}},
		},
	}

	ranked := Rank(candidates, nil, baseRequirements())

	require.Len(t, ranked, 1)
	rationale := ranked[0].Rationale
	require.NotEmpty(t, rationale)
	// The strongest contribution (title match, +20) leads the rationale.
	assert.Contains(t, rationale[0], "title match")
}

func TestRank_VariantsAttached(t *testing.T) {
	candidates := []types.Candidate{{PersonID: "p1", Skills: []string{"Go"}, YearsOfExperience: 5}}
	corroboration := map[string][]string{"p1": {"skills-emphasis", "title-emphasis"}}

	ranked := Rank(candidates, corroboration, baseRequirements())

	require.Len(t, ranked, 1)
	assert.Equal(t, []string{"skills-emphasis", "title-emphasis"}, ranked[0].Variants)
}

func TestRank_MustHaveMatchNeverLowersScore(t *testing.T) {
	// Gaining a previously-unmet must-have skill, all else equal, must
	// never decrease the score.
	reqs := baseRequirements()
	reqs.MustHaveSkills = []string{"Go", "Kubernetes"}
	reqs.NiceToHaveSkills = nil

	partial := types.Candidate{PersonID: "p1", YearsOfExperience: 5, Skills: []string{"Go"}}
	complete := partial
	complete.Skills = []string{"Go", "Kubernetes"}

	cappedScore := Rank([]types.Candidate{partial}, nil, reqs)[0].Score
	fullScore := Rank([]types.Candidate{complete}, nil, reqs)[0].Score

	assert.LessOrEqual(t, cappedScore, 49)
	assert.GreaterOrEqual(t, fullScore, cappedScore)
}

func TestRank_MustHaveMatchMonotonicAcrossCeiling(t *testing.T) {
	// Eleven must-haves: per-skill points saturate at ten matches, so the
	// eleventh adds nothing directly but lifts the 49-point cap. The score
	// must still move upward, never down.
	skills := make([]string, 0, 11)
	for i := 1; i <= 11; i++ {
		skills = append(skills, fmt.Sprintf("Skill%02d", i))
	}
	reqs := baseRequirements()
	reqs.MustHaveSkills = skills
	reqs.NiceToHaveSkills = nil

	tenOfEleven := types.Candidate{PersonID: "p1", YearsOfExperience: 5, Skills: skills[:10]}
	allEleven := tenOfEleven
	allEleven.Skills = skills

	capped := Rank([]types.Candidate{tenOfEleven}, nil, reqs)[0].Score
	uncapped := Rank([]types.Candidate{allEleven}, nil, reqs)[0].Score

	assert.Equal(t, 49, capped)
	assert.Greater(t, uncapped, capped)
}

func TestRank_EmptyInput(t *testing.T) {
	ranked := Rank(nil, nil, baseRequirements())
	assert.Empty(t, ranked)
}
