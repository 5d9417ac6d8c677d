// Package types provides type definitions for structured data used throughout the talent-sourcer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Default run budgets applied by Requirements.ApplyDefaults.
const (
	DefaultTargetCount = 100
	DefaultCreditsCap  = 18
	DefaultPageLimit   = 200
	MaxPageLimit       = 200
)

// Requirements represents a validated, structured recruitment requirement set.
// It is produced by an external brief-parsing collaborator and is immutable
// once a run starts.
type Requirements struct {
	Titles           []string `json:"titles" validate:"required,min=1,dive,min=1"`
	MustHaveSkills   []string `json:"must_have_skills,omitempty"`
	NiceToHaveSkills []string `json:"nice_to_have_skills,omitempty"`

	Region        string `json:"region,omitempty"`
	MinExperience int    `json:"min_experience" validate:"min=0"`
	MaxExperience int    `json:"max_experience" validate:"min=0"`

	CompanySizeMin   int      `json:"company_size_min,omitempty" validate:"min=0"`
	CompanySizeMax   int      `json:"company_size_max,omitempty" validate:"min=0"`
	TargetIndustries []string `json:"target_industries,omitempty"`
	ExcludeCompanies []string `json:"exclude_companies,omitempty"`

	// Post-processing exclusions applied after deduplication.
	ExcludeProfiles []string `json:"exclude_profiles,omitempty"`
	ExcludeNames    []string `json:"exclude_names,omitempty"`

	TargetCount int `json:"target_count" validate:"min=0"`
	CreditsCap  int `json:"credits_cap" validate:"min=0"`
	PageLimit   int `json:"page_limit" validate:"min=0,max=200"`
}

// ApplyDefaults fills unset budget fields with the documented defaults.
func (r *Requirements) ApplyDefaults() {
	if r.TargetCount == 0 {
		r.TargetCount = DefaultTargetCount
	}
	if r.CreditsCap == 0 {
		r.CreditsCap = DefaultCreditsCap
	}
	if r.PageLimit == 0 {
		r.PageLimit = DefaultPageLimit
	}
	if r.PageLimit > MaxPageLimit {
		r.PageLimit = MaxPageLimit
	}
	if r.MaxExperience == 0 {
		r.MaxExperience = 100
	}
}

// Validate validates the Requirements using the validator.
func (r *Requirements) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.MaxExperience > 0 && r.MaxExperience < r.MinExperience {
		return &RequirementsError{Field: "max_experience", Message: "must not be less than min_experience"}
	}
	if r.CompanySizeMax > 0 && r.CompanySizeMax < r.CompanySizeMin {
		return &RequirementsError{Field: "company_size_max", Message: "must not be less than company_size_min"}
	}
	return nil
}

// RequirementsError represents a structural problem in a requirement set.
type RequirementsError struct {
	Field   string
	Message string
}

func (e *RequirementsError) Error() string {
	if e.Field != "" {
		return "invalid requirements: " + e.Field + ": " + e.Message
	}
	return "invalid requirements: " + e.Message
}
