package planner

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/talent-sourcer/internal/filter"
	"github.com/jonathan/talent-sourcer/internal/types"
)

// VariantCount is the number of exploration variants built during Planning.
const VariantCount = 3

// Variant is one search strategy under evaluation: a named filter
// expression plus per-variant counters mutated as the run progresses.
type Variant struct {
	Name       string
	Expression *filter.Expression
	Serialized json.RawMessage

	PagesFetched  int
	ResultCount   int
	QualitySignal float64
	Exhausted     bool
	Failed        bool
	Selected      bool
}

// buildVariants materializes exactly three variants with distinct strategic
// emphases from the requirement set: skills-weighted, title-weighted, and
// company/region-weighted. Every variant carries the hard experience band
// and employer exclusions. A validation failure here is fatal to the run.
func buildVariants(reqs *types.Requirements) ([]*Variant, error) {
	builders := []struct {
		name  string
		build func(*types.Requirements) (*filter.Expression, error)
	}{
		{"skills-emphasis", buildSkillsVariant},
		{"title-emphasis", buildTitleVariant},
		{"company-emphasis", buildCompanyVariant},
	}

	variants := make([]*Variant, 0, VariantCount)
	for _, b := range builders {
		expr, err := b.build(reqs)
		if err != nil {
			return nil, &PlanError{Message: "variant " + b.name, Cause: err}
		}
		serialized, err := filter.Serialize(expr)
		if err != nil {
			return nil, &PlanError{Message: "serializing variant " + b.name, Cause: err}
		}
		variants = append(variants, &Variant{
			Name:       b.name,
			Expression: expr,
			Serialized: serialized,
		})
	}
	return variants, nil
}

// buildSkillsVariant demands every must-have skill, with only a loose core
// title match.
func buildSkillsVariant(reqs *types.Requirements) (*filter.Expression, error) {
	var conditions []*filter.Expression
	for _, skill := range reqs.MustHaveSkills {
		conditions = append(conditions, filter.Fuzzy(filter.ColumnSkills, skill))
	}
	if len(reqs.Titles) > 0 {
		conditions = append(conditions, filter.Fuzzy(filter.ColumnTitle, coreRoleTerm(reqs.Titles[0])))
	}
	conditions = append(conditions, commonConditions(reqs)...)
	return filter.Build(conditions...)
}

// buildTitleVariant matches any target title exactly as phrased, plus the
// single most important must-have skill.
func buildTitleVariant(reqs *types.Requirements) (*filter.Expression, error) {
	var conditions []*filter.Expression
	if len(reqs.Titles) > 0 {
		titleAlts := make([]*filter.Expression, 0, len(reqs.Titles))
		for _, title := range reqs.Titles {
			titleAlts = append(titleAlts, filter.Fuzzy(filter.ColumnTitle, title))
		}
		conditions = append(conditions, filter.Or(titleAlts...))
	}
	if len(reqs.MustHaveSkills) > 0 {
		conditions = append(conditions, filter.Fuzzy(filter.ColumnSkills, reqs.MustHaveSkills[0]))
	}
	conditions = append(conditions, commonConditions(reqs)...)
	return filter.Build(conditions...)
}

// buildCompanyVariant emphasizes company context: size band and industries,
// with must-have skills and a loose title term.
func buildCompanyVariant(reqs *types.Requirements) (*filter.Expression, error) {
	var conditions []*filter.Expression
	if reqs.CompanySizeMin > 0 {
		conditions = append(conditions, filter.AtLeast(filter.ColumnHeadcount, reqs.CompanySizeMin))
	}
	if reqs.CompanySizeMax > 0 {
		conditions = append(conditions, filter.AtMost(filter.ColumnHeadcount, reqs.CompanySizeMax))
	}
	if len(reqs.TargetIndustries) > 0 {
		industryAlts := make([]*filter.Expression, 0, len(reqs.TargetIndustries))
		for _, industry := range reqs.TargetIndustries {
			industryAlts = append(industryAlts, filter.Fuzzy(filter.ColumnIndustries, industry))
		}
		conditions = append(conditions, filter.Or(industryAlts...))
	}
	for _, skill := range reqs.MustHaveSkills {
		conditions = append(conditions, filter.Fuzzy(filter.ColumnSkills, skill))
	}
	if len(conditions) == 0 && len(reqs.Titles) > 0 {
		conditions = append(conditions, filter.Fuzzy(filter.ColumnTitle, reqs.Titles[0]))
	}
	conditions = append(conditions, commonConditions(reqs)...)
	return filter.Build(conditions...)
}

// commonConditions returns the hard constraints every variant carries.
func commonConditions(reqs *types.Requirements) []*filter.Expression {
	var conditions []*filter.Expression
	if reqs.MinExperience > 0 {
		conditions = append(conditions, filter.AtLeast(filter.ColumnExperience, reqs.MinExperience))
	}
	if reqs.MaxExperience > 0 && reqs.MaxExperience < 100 {
		conditions = append(conditions, filter.AtMost(filter.ColumnExperience, reqs.MaxExperience))
	}
	if reqs.Region != "" {
		conditions = append(conditions, filter.Fuzzy(filter.ColumnRegion, reqs.Region))
	}
	if len(reqs.ExcludeCompanies) > 0 {
		conditions = append(conditions, filter.NotIn(filter.ColumnEmployer, reqs.ExcludeCompanies))
	}
	return conditions
}

// coreRoleTerm extracts the core role token from a title: the last word
// ("Engineer" in "Senior Software Engineer").
func coreRoleTerm(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return title
	}
	return fields[len(fields)-1]
}
