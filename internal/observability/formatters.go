// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/talent-sourcer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequirements outputs a human-readable summary of the requirement set.
func (p *Printer) PrintRequirements(reqs *types.Requirements) {
	if reqs == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Titles:   %s\n", strings.Join(reqs.Titles, ", ")))
	if reqs.Region != "" {
		sb.WriteString(fmt.Sprintf("Region:   %s\n", reqs.Region))
	}
	sb.WriteString(fmt.Sprintf("Exp:      %d-%d years\n", reqs.MinExperience, reqs.MaxExperience))
	sb.WriteString("\n")

	if len(reqs.MustHaveSkills) > 0 {
		sb.WriteString("Must-have Skills:\n")
		count := min(len(reqs.MustHaveSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", reqs.MustHaveSkills[i]))
		}
		if len(reqs.MustHaveSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(reqs.MustHaveSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(reqs.NiceToHaveSkills) > 0 {
		sb.WriteString("Nice-to-haves:\n")
		count := min(len(reqs.NiceToHaveSkills), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", reqs.NiceToHaveSkills[i]))
		}
		if len(reqs.NiceToHaveSkills) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(reqs.NiceToHaveSkills)-3))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Target:   %d candidates\n", reqs.TargetCount))
	sb.WriteString(fmt.Sprintf("Credits:  %d cap\n", reqs.CreditsCap))

	p.printBox("REQUIREMENT SET", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVariants outputs the per-variant outcomes after a run.
func (p *Printer) PrintVariants(variants []types.VariantSummary) {
	if len(variants) == 0 {
		return
	}

	var sb strings.Builder
	for i, v := range variants {
		marker := " "
		switch {
		case v.Failed:
			marker = "✗"
		case v.Selected:
			marker = "★"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, v.Name))
		sb.WriteString(fmt.Sprintf("    Pages: %d  Results: %d  Signal: %.3f", v.PagesFetched, v.ResultCount, v.QualitySignal))
		if v.Exhausted {
			sb.WriteString("  (exhausted)")
		}
		sb.WriteString("\n")
		if i < len(variants)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SEARCH VARIANTS", sb.String())
}

// PrintRankedCandidates outputs the top N ranked candidates with scores and
// rationale.
func (p *Printer) PrintRankedCandidates(ranked []types.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		rc := ranked[i]
		name := rc.Candidate.Name
		if name == "" {
			name = rc.Candidate.PersonID
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    Score: %d", rc.Score))
		if title := rc.Candidate.CurrentTitle(); title != "" {
			t := title
			if len(t) > 35 {
				t = t[:32] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s", t))
		}
		sb.WriteString("\n")
		if len(rc.Rationale) > 0 {
			rationale := strings.Join(rc.Rationale, "; ")
			if len(rationale) > 45 {
				rationale = rationale[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", rationale))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(ranked)-maxItemsToShow))
	}

	p.printBox("TOP RANKED CANDIDATES", sb.String())
}

// PrintRunReport outputs the run summary: phase stats, budgets, and the
// early-stop reason when the run ended before its target.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunReport(report *types.RunReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Calls:    %d\n", report.TotalCalls))
	sb.WriteString(fmt.Sprintf("Credits:  %d spent\n", report.TotalCreditsSpent))
	sb.WriteString(fmt.Sprintf("Found:    %d raw, %d deduplicated\n", report.TotalFound, report.DedupedCount))
	if report.EarlyStopReason != "" {
		sb.WriteString(fmt.Sprintf("Stopped:  %s\n", report.EarlyStopReason))
	}
	sb.WriteString("\n")

	sb.WriteString("Phases:\n")
	for _, ph := range report.Phases {
		sb.WriteString(fmt.Sprintf("  %-13s %2d calls  %s\n", ph.Phase, ph.Calls, ph.Duration.Round(10*time.Millisecond)))
	}

	p.printBox("RUN REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
