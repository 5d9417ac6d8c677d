package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-sourcer/internal/filter"
	"github.com/jonathan/talent-sourcer/internal/types"
)

func testRequirements() *types.Requirements {
	reqs := &types.Requirements{
		Titles:           []string{"Senior Backend Engineer", "Platform Engineer"},
		MustHaveSkills:   []string{"Go", "Kubernetes"},
		Region:           "Berlin",
		MinExperience:    4,
		MaxExperience:    10,
		CompanySizeMin:   50,
		CompanySizeMax:   2000,
		TargetIndustries: []string{"Fintech"},
		ExcludeCompanies: []string{"Acme Corp"},
	}
	reqs.ApplyDefaults()
	return reqs
}

func TestBuildVariants_ThreeDistinctStrategies(t *testing.T) {
	variants, err := buildVariants(testRequirements())
	require.NoError(t, err)

	require.Len(t, variants, VariantCount)

	names := make(map[string]bool)
	for _, v := range variants {
		names[v.Name] = true
		require.NotNil(t, v.Expression)
		require.NotEmpty(t, v.Serialized)

		// Every serialized variant must parse back into a valid tree.
		parsed, err := filter.Parse(v.Serialized)
		require.NoError(t, err, "variant %s", v.Name)
		assert.True(t, filter.Equivalent(v.Expression, parsed))
	}
	assert.True(t, names["skills-emphasis"])
	assert.True(t, names["title-emphasis"])
	assert.True(t, names["company-emphasis"])
}

func TestBuildVariants_CarryExperienceBand(t *testing.T) {
	variants, err := buildVariants(testRequirements())
	require.NoError(t, err)

	for _, v := range variants {
		ops := collectOps(v.Expression, filter.ColumnExperience)
		assert.Contains(t, ops, filter.OpAtLeast, "variant %s missing lower bound", v.Name)
		assert.Contains(t, ops, filter.OpAtMost, "variant %s missing upper bound", v.Name)
	}
}

// collectOps gathers the operators applied to a column anywhere in the tree.
func collectOps(expr *filter.Expression, column string) []filter.Op {
	if expr == nil {
		return nil
	}
	if expr.IsLeaf() {
		if expr.Column == column {
			return []filter.Op{expr.Op}
		}
		return nil
	}
	var ops []filter.Op
	for _, child := range expr.Conditions {
		ops = append(ops, collectOps(child, column)...)
	}
	return ops
}

func TestBuildVariants_CarryEmployerExclusions(t *testing.T) {
	variants, err := buildVariants(testRequirements())
	require.NoError(t, err)

	for _, v := range variants {
		assert.Contains(t, string(v.Serialized), "Acme Corp", "variant %s must exclude named employers", v.Name)
	}
}

func TestBuildVariants_TitleVariantCoversAllTitles(t *testing.T) {
	variants, err := buildVariants(testRequirements())
	require.NoError(t, err)

	var title *Variant
	for _, v := range variants {
		if v.Name == "title-emphasis" {
			title = v
		}
	}
	require.NotNil(t, title)

	serialized := string(title.Serialized)
	assert.Contains(t, serialized, "Senior Backend Engineer")
	assert.Contains(t, serialized, "Platform Engineer")
	assert.Contains(t, serialized, `"or"`)
}

func TestBuildVariants_CompanyVariantUsesSizeBand(t *testing.T) {
	variants, err := buildVariants(testRequirements())
	require.NoError(t, err)

	var company *Variant
	for _, v := range variants {
		if v.Name == "company-emphasis" {
			company = v
		}
	}
	require.NotNil(t, company)

	serialized := string(company.Serialized)
	assert.Contains(t, serialized, filter.ColumnHeadcount)
	assert.Contains(t, serialized, "Fintech")
}

func TestBuildVariants_MinimalRequirements(t *testing.T) {
	reqs := &types.Requirements{Titles: []string{"Engineer"}}
	reqs.ApplyDefaults()

	variants, err := buildVariants(reqs)
	require.NoError(t, err)
	assert.Len(t, variants, VariantCount)
}

func TestCoreRoleTerm(t *testing.T) {
	assert.Equal(t, "Engineer", coreRoleTerm("Senior Software Engineer"))
	assert.Equal(t, "Designer", coreRoleTerm("Designer"))
	assert.Equal(t, "", coreRoleTerm(""))
}
