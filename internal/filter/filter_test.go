package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ComposesANDTree(t *testing.T) {
	expr, err := Build(
		Fuzzy(ColumnTitle, "Engineer"),
		AtLeast(ColumnExperience, 5),
		Fuzzy(ColumnRegion, "Berlin"),
	)
	require.NoError(t, err)

	require.False(t, expr.IsLeaf())
	assert.Equal(t, CombinatorAnd, expr.Combinator)
	assert.Len(t, expr.Conditions, 3)
}

func TestBuild_SingleConditionUnwrapped(t *testing.T) {
	expr, err := Build(Fuzzy(ColumnSkills, "Go"))
	require.NoError(t, err)

	assert.True(t, expr.IsLeaf())
	assert.Equal(t, ColumnSkills, expr.Column)
	assert.Equal(t, OpFuzzy, expr.Op)
}

func TestBuild_NoConditions(t *testing.T) {
	_, err := Build()
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidate_UnknownOperator(t *testing.T) {
	expr := Condition(ColumnSkills, Op(">="), "Go")

	err := Validate(expr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestValidate_FuzzyOnNumericColumn(t *testing.T) {
	for _, column := range []string{ColumnExperience, ColumnHeadcount} {
		err := Validate(Fuzzy(column, "five"))
		require.Error(t, err, "fuzzy should be rejected on %s", column)
		assert.Contains(t, err.Error(), "numeric")
	}
}

func TestValidate_EmptyGroup(t *testing.T) {
	expr := &Expression{Combinator: CombinatorOr}

	err := Validate(expr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conditions")
}

func TestValidate_MissingValue(t *testing.T) {
	expr := &Expression{Column: ColumnSkills, Op: OpFuzzy}

	err := Validate(expr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing value")
}

func TestValidate_MixedLeafAndGroupFields(t *testing.T) {
	expr := &Expression{
		Column:     ColumnSkills,
		Combinator: CombinatorAnd,
		Conditions: []*Expression{Fuzzy(ColumnSkills, "Go")},
	}

	err := Validate(expr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mixes leaf and group")
}

func TestValidate_DepthLimit(t *testing.T) {
	// Build a chain deeper than MaxDepth.
	leaf := Fuzzy(ColumnSkills, "Go")
	expr := leaf
	for i := 0; i < MaxDepth+1; i++ {
		expr = &Expression{Combinator: CombinatorAnd, Conditions: []*Expression{expr, Fuzzy(ColumnRegion, "Berlin")}}
	}

	err := Validate(expr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth")
}

func TestValidate_DisjointRangesUnderAND(t *testing.T) {
	expr := &Expression{
		Combinator: CombinatorAnd,
		Conditions: []*Expression{
			AtLeast(ColumnExperience, 10),
			AtMost(ColumnExperience, 5),
		},
	}

	err := Validate(expr)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ColumnExperience, validationErr.Column)
	assert.Contains(t, err.Error(), "OR")
}

func TestValidate_DisjointRangesUnderORAllowed(t *testing.T) {
	expr := &Expression{
		Combinator: CombinatorOr,
		Conditions: []*Expression{
			AtMost(ColumnExperience, 5),
			AtLeast(ColumnExperience, 10),
		},
	}

	assert.NoError(t, Validate(expr))
}

func TestValidate_SatisfiableRangesUnderAND(t *testing.T) {
	expr := &Expression{
		Combinator: CombinatorAnd,
		Conditions: []*Expression{
			AtLeast(ColumnExperience, 5),
			AtMost(ColumnExperience, 10),
			AtLeast(ColumnHeadcount, 50),
			AtMost(ColumnHeadcount, 500),
		},
	}

	assert.NoError(t, Validate(expr))
}

func TestValidate_NestedGroups(t *testing.T) {
	expr, err := Build(
		Or(
			Fuzzy(ColumnTitle, "Backend Engineer"),
			Fuzzy(ColumnTitle, "Platform Engineer"),
		),
		Fuzzy(ColumnSkills, "Go"),
		NotIn(ColumnEmployer, []string{"Acme Corp"}),
	)
	require.NoError(t, err)
	assert.NoError(t, Validate(expr))
}

func TestAnd_SingleConditionUnwrapped(t *testing.T) {
	c := Fuzzy(ColumnSkills, "Go")
	assert.Same(t, c, And(c))
	assert.Same(t, c, Or(c))
}
