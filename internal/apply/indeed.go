package apply

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
)

// Indeed apply flow selectors.
const (
	indeedApplyButton    = "#indeedApplyButton"
	indeedApplyButtonAlt = ".ia-IndeedApplyButton"
	indeedContinueButton = ".ia-continueButton"
)

// IndeedStrategy drives the Indeed Apply flow.
type IndeedStrategy struct {
	open    OpenPageFunc
	now     func() time.Time
	verbose bool
}

// NewIndeedStrategy creates the Indeed Apply strategy.
func NewIndeedStrategy(open OpenPageFunc, verbose bool) *IndeedStrategy {
	return &IndeedStrategy{open: open, now: time.Now, verbose: verbose}
}

// Platform identifies the board this strategy serves.
func (s *IndeedStrategy) Platform() types.Platform { return types.PlatformIndeed }

// Apply opens the listing and starts the Indeed Apply flow. Listings that
// redirect off-platform fail with a recorded reason instead of following
// the redirect.
func (s *IndeedStrategy) Apply(ctx context.Context, job *types.JobListing, _ *types.UserProfile, _ types.ApplySettings) types.ApplicationResult {
	page, err := s.open(ctx)
	if err != nil {
		return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to open page: %v", err))
	}
	defer page.Close()

	if s.verbose {
		log.Printf("[APPLY] indeed: %s at %s", job.Title, job.Company)
	}

	if err := page.Navigate(job.URL); err != nil {
		return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to load listing: %v", err))
	}

	applyButton := indeedApplyButton
	if !page.HasElement(applyButton) {
		applyButton = indeedApplyButtonAlt
		if !page.HasElement(applyButton) {
			return failedResult(job, types.MethodEasyApply, s.now(), "apply control not found")
		}
	}
	if err := page.Click(applyButton); err != nil {
		return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to open apply form: %v", err))
	}

	if page.HasElement(indeedContinueButton) {
		if err := page.Click(indeedContinueButton); err != nil {
			return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to advance apply form: %v", err))
		}
	}

	return successResult(job, types.MethodEasyApply, s.now())
}
