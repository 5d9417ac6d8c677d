//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirements_ApplyDefaults(t *testing.T) {
	reqs := Requirements{Titles: []string{"Engineer"}}
	reqs.ApplyDefaults()

	assert.Equal(t, DefaultTargetCount, reqs.TargetCount)
	assert.Equal(t, DefaultCreditsCap, reqs.CreditsCap)
	assert.Equal(t, DefaultPageLimit, reqs.PageLimit)
	assert.Equal(t, 100, reqs.MaxExperience, "open upper band defaults to 100")
}

func TestRequirements_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	reqs := Requirements{
		Titles:      []string{"Engineer"},
		TargetCount: 50,
		CreditsCap:  6,
		PageLimit:   100,
	}
	reqs.ApplyDefaults()

	assert.Equal(t, 50, reqs.TargetCount)
	assert.Equal(t, 6, reqs.CreditsCap)
	assert.Equal(t, 100, reqs.PageLimit)
}

func TestRequirements_ApplyDefaults_ClampsPageLimit(t *testing.T) {
	reqs := Requirements{Titles: []string{"Engineer"}, PageLimit: 1000}
	reqs.ApplyDefaults()

	assert.Equal(t, MaxPageLimit, reqs.PageLimit)
}

func TestRequirements_Validate(t *testing.T) {
	reqs := Requirements{Titles: []string{"Backend Engineer"}}
	reqs.ApplyDefaults()

	assert.NoError(t, reqs.Validate())
}

func TestRequirements_Validate_TitlesRequired(t *testing.T) {
	reqs := Requirements{}
	reqs.ApplyDefaults()

	assert.Error(t, reqs.Validate())
}

func TestRequirements_Validate_ExperienceBandInverted(t *testing.T) {
	reqs := Requirements{
		Titles:        []string{"Engineer"},
		MinExperience: 10,
		MaxExperience: 5,
	}

	err := reqs.Validate()
	require.Error(t, err)

	var reqErr *RequirementsError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "max_experience", reqErr.Field)
}

func TestRequirements_Validate_CompanySizeBandInverted(t *testing.T) {
	reqs := Requirements{
		Titles:         []string{"Engineer"},
		CompanySizeMin: 500,
		CompanySizeMax: 100,
	}

	err := reqs.Validate()
	require.Error(t, err)

	var reqErr *RequirementsError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "company_size_max", reqErr.Field)
}

func TestCandidate_CurrentEmployerHelpers(t *testing.T) {
	c := Candidate{
		CurrentEmployers: []Employer{
			{Name: "Acme", Title: "Engineer", Headcount: 300, Industries: []string{"Fintech"}},
			{Name: "Side Gig"},
		},
	}

	assert.Equal(t, "Engineer", c.CurrentTitle())
	assert.Equal(t, "Acme", c.CurrentEmployerName())
	assert.Equal(t, 300, c.CurrentHeadcount())
	assert.Equal(t, []string{"Fintech"}, c.CurrentIndustries())

	empty := Candidate{}
	assert.Empty(t, empty.CurrentTitle())
	assert.Empty(t, empty.CurrentEmployerName())
	assert.Zero(t, empty.CurrentHeadcount())
	assert.Nil(t, empty.CurrentIndustries())
}
