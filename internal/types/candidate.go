// Package types provides type definitions for structured data used throughout the talent-sourcer system.
package types

// Employer represents a candidate's current employment record as returned by
// the people-search service.
type Employer struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	StartDate  string   `json:"start_date,omitempty"` // ISO date, e.g. "2022-03-01"
	Headcount  int      `json:"company_headcount_latest,omitempty"`
	Industries []string `json:"company_industries,omitempty"`
}

// Candidate represents a single candidate profile. Identity is the PersonID
// field; candidates are immutable once ingested.
type Candidate struct {
	PersonID          string     `json:"person_id"`
	Name              string     `json:"name"`
	Headline          string     `json:"headline,omitempty"`
	Region            string     `json:"region,omitempty"`
	YearsOfExperience int        `json:"years_of_experience_raw"`
	Skills            []string   `json:"skills,omitempty"`
	CurrentEmployers  []Employer `json:"current_employers,omitempty"`
	ProfileURL        string     `json:"profile_url,omitempty"`
}

// CurrentTitle returns the title of the first current employer, or "".
func (c *Candidate) CurrentTitle() string {
	if len(c.CurrentEmployers) > 0 {
		return c.CurrentEmployers[0].Title
	}
	return ""
}

// CurrentEmployerName returns the name of the first current employer, or "".
func (c *Candidate) CurrentEmployerName() string {
	if len(c.CurrentEmployers) > 0 {
		return c.CurrentEmployers[0].Name
	}
	return ""
}

// CurrentHeadcount returns the headcount of the first current employer, or 0.
func (c *Candidate) CurrentHeadcount() int {
	if len(c.CurrentEmployers) > 0 {
		return c.CurrentEmployers[0].Headcount
	}
	return 0
}

// CurrentIndustries returns the industries of the first current employer.
func (c *Candidate) CurrentIndustries() []string {
	if len(c.CurrentEmployers) > 0 {
		return c.CurrentEmployers[0].Industries
	}
	return nil
}

// RankedCandidate represents a scored candidate with an explainable rationale.
// It is derived by the ranker and never mutated after creation.
type RankedCandidate struct {
	Candidate Candidate `json:"candidate"`
	Score     int       `json:"score"` // clamped to [0,100]
	Rationale []string  `json:"rationale"`
	// Variants lists the search variants that surfaced this candidate,
	// in discovery order.
	Variants []string `json:"variants,omitempty"`
}
