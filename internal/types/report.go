// Package types provides type definitions for structured data used throughout the talent-sourcer system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// PhaseStats holds per-phase run statistics for the final report.
type PhaseStats struct {
	Phase           string        `json:"phase"`
	Calls           int           `json:"calls"`
	FailedCalls     int           `json:"failed_calls,omitempty"`
	CreditsSpent    int           `json:"credits_spent"`
	CandidatesFound int           `json:"candidates_found"`
	Duration        time.Duration `json:"duration"`
}

// VariantSummary describes one search variant's outcome without exposing
// internal filter clauses.
type VariantSummary struct {
	Name          string  `json:"name"`
	PagesFetched  int     `json:"pages_fetched"`
	ResultCount   int     `json:"result_count"`
	QualitySignal float64 `json:"quality_signal"`
	Selected      bool    `json:"selected"`
	Exhausted     bool    `json:"exhausted,omitempty"`
	Failed        bool    `json:"failed,omitempty"`
}

// RunReport is the final artifact of a sourcing run: requirement and strategy
// summaries, phase statistics, and the ranked candidate list. It is assembled
// once, at the terminal phase.
type RunReport struct {
	RunID              uuid.UUID         `json:"run_id"`
	RequirementSummary string            `json:"requirement_summary"`
	StrategySummary    string            `json:"strategy_summary"`
	Phases             []PhaseStats      `json:"phases"`
	Variants           []VariantSummary  `json:"variants"`
	TotalCalls         int               `json:"total_calls"`
	TotalCreditsSpent  int               `json:"total_credits_spent"`
	TotalFound         int               `json:"total_candidates_found"`
	DedupedCount       int               `json:"deduplicated_count"`
	EarlyStopReason    string            `json:"early_stop_reason,omitempty"`
	Ranked             []RankedCandidate `json:"ranked_candidates"`
	StartedAt          time.Time         `json:"started_at"`
	FinishedAt         time.Time         `json:"finished_at"`
}
