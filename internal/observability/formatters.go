// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/auto-applier/internal/types"
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

// PrintSearchResults outputs a human-readable summary of scraped listings.
func (p *Printer) PrintSearchResults(jobs []types.JobListing) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total listings found: %d\n\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		title := job.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    %s, %s", job.Company, job.Location))
		if job.EasyApply {
			sb.WriteString(" [easy apply]")
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more listings", len(jobs)-maxItemsToShow))
	}

	p.printBox("SEARCH RESULTS", sb.String())
}

// PrintApplicationResults outputs per-job outcomes of an apply loop.
func (p *Printer) PrintApplicationResults(results []types.ApplicationResult) {
	if len(results) == 0 {
		return
	}

	var succeeded, failed, skipped int
	for _, res := range results {
		switch res.Status {
		case types.StatusSuccess:
			succeeded++
		case types.StatusFailed:
			failed++
		case types.StatusSkipped:
			skipped++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Succeeded: %d  Failed: %d  Skipped: %d\n\n", succeeded, failed, skipped))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		res := results[i]
		title := res.JobTitle
		if len(title) > 36 {
			title = title[:33] + "..."
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n", res.Status, title))
		if res.Reason != "" {
			reason := res.Reason
			if len(reason) > 44 {
				reason = reason[:41] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", reason))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more outcomes", len(results)-maxItemsToShow))
	}

	p.printBox("APPLICATION OUTCOMES", sb.String())
}

// PrintUserStats outputs aggregate application counters.
func (p *Printer) PrintUserStats(stats *types.UserStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total applications: %d\n", stats.TotalApplications))
	sb.WriteString(fmt.Sprintf("Successful:         %d\n", stats.SuccessfulApplications))
	sb.WriteString(fmt.Sprintf("This week:          %d\n", stats.ApplicationsThisWeek))
	sb.WriteString(fmt.Sprintf("This month:         %d\n", stats.ApplicationsThisMonth))
	sb.WriteString(fmt.Sprintf("Success rate:       %.0f%%", stats.SuccessRate*100))

	if len(stats.PlatformBreakdown) > 0 {
		sb.WriteString("\n\nBy platform:\n")
		for platform, n := range stats.PlatformBreakdown {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", platform, n))
		}
	}

	p.printBox("APPLICATION STATS", strings.TrimSuffix(sb.String(), "\n"))
}
