// Package apply contains the application orchestrator and the per-platform
// submission strategies it dispatches to.
package apply

import (
	"context"
	"time"

	"github.com/jonathan/auto-applier/internal/profile"
	"github.com/jonathan/auto-applier/internal/types"
)

// Page is the subset of browser page operations a strategy needs.
type Page interface {
	Navigate(url string) error
	HasElement(sel string) bool
	Fill(sel, value string) error
	Click(sel string) error
	Close()
}

// OpenPageFunc opens a scoped page for one job attempt. The strategy owns
// the page and must release it on every exit path.
type OpenPageFunc func(ctx context.Context) (Page, error)

// CoverLetterFunc renders the cover letter submitted with one application.
type CoverLetterFunc func(ctx context.Context, p *types.UserProfile, job *types.JobListing) string

// TemplateCoverLetter is the default CoverLetterFunc, pure template
// substitution with no LLM involvement.
func TemplateCoverLetter(_ context.Context, p *types.UserProfile, job *types.JobListing) string {
	return profile.RenderCoverLetter(p, job)
}

// Strategy submits one application. Implementations return exactly one
// result and never mutate run-level state; quota and dedup bookkeeping
// belong to the Orchestrator.
type Strategy interface {
	Platform() types.Platform
	Apply(ctx context.Context, job *types.JobListing, p *types.UserProfile, settings types.ApplySettings) types.ApplicationResult
}

// ExternalStrategy is the fallback for platforms whose application flow
// leaves the job board. External flows are never attempted blindly.
type ExternalStrategy struct {
	now func() time.Time
}

// NewExternalStrategy creates the external-site fallback strategy.
func NewExternalStrategy() *ExternalStrategy {
	return &ExternalStrategy{now: time.Now}
}

// Platform returns the empty platform; the fallback serves any board
// without a dedicated strategy.
func (s *ExternalStrategy) Platform() types.Platform { return "" }

// Apply always skips. No page is acquired.
func (s *ExternalStrategy) Apply(_ context.Context, job *types.JobListing, _ *types.UserProfile, _ types.ApplySettings) types.ApplicationResult {
	return types.ApplicationResult{
		JobID:     job.ID,
		JobTitle:  job.Title,
		Company:   job.Company,
		Status:    types.StatusSkipped,
		Reason:    "unsupported platform",
		AppliedAt: s.now(),
		Method:    types.MethodExternal,
	}
}

func failedResult(job *types.JobListing, method types.ApplyMethod, now time.Time, reason string) types.ApplicationResult {
	return types.ApplicationResult{
		JobID:     job.ID,
		JobTitle:  job.Title,
		Company:   job.Company,
		Status:    types.StatusFailed,
		Reason:    reason,
		AppliedAt: now,
		Method:    method,
	}
}

func successResult(job *types.JobListing, method types.ApplyMethod, now time.Time) types.ApplicationResult {
	return types.ApplicationResult{
		JobID:     job.ID,
		JobTitle:  job.Title,
		Company:   job.Company,
		Status:    types.StatusSuccess,
		AppliedAt: now,
		Method:    method,
	}
}
