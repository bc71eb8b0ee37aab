package apply

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
)

// LinkedIn Easy Apply form selectors.
const (
	linkedInApplyButton    = ".jobs-apply-button--top-card"
	linkedInApplyButtonAlt = ".jobs-apply-button"
	linkedInPhoneField     = `input[name="phoneNumber"]`
	linkedInLetterField    = `textarea[name="coverLetter"]`
	linkedInSubmitButton   = `button[aria-label="Submit application"]`
)

// LinkedInStrategy drives the LinkedIn Easy Apply modal.
type LinkedInStrategy struct {
	open        OpenPageFunc
	coverLetter CoverLetterFunc
	now         func() time.Time
	verbose     bool
}

// NewLinkedInStrategy creates the LinkedIn Easy Apply strategy. A nil
// coverLetter falls back to plain template rendering.
func NewLinkedInStrategy(open OpenPageFunc, coverLetter CoverLetterFunc, verbose bool) *LinkedInStrategy {
	if coverLetter == nil {
		coverLetter = TemplateCoverLetter
	}
	return &LinkedInStrategy{
		open:        open,
		coverLetter: coverLetter,
		now:         time.Now,
		verbose:     verbose,
	}
}

// Platform identifies the board this strategy serves.
func (s *LinkedInStrategy) Platform() types.Platform { return types.PlatformLinkedIn }

// Apply opens the listing, works through the Easy Apply form, and submits.
// Every outcome is expressed as a result; the page is always released.
func (s *LinkedInStrategy) Apply(ctx context.Context, job *types.JobListing, p *types.UserProfile, settings types.ApplySettings) types.ApplicationResult {
	page, err := s.open(ctx)
	if err != nil {
		return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to open page: %v", err))
	}
	defer page.Close()

	if s.verbose {
		log.Printf("[APPLY] linkedin: %s at %s", job.Title, job.Company)
	}

	if err := page.Navigate(job.URL); err != nil {
		return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to load listing: %v", err))
	}

	applyButton := linkedInApplyButton
	if !page.HasElement(applyButton) {
		applyButton = linkedInApplyButtonAlt
		if !page.HasElement(applyButton) {
			return failedResult(job, types.MethodEasyApply, s.now(), "apply control not found")
		}
	}
	if err := page.Click(applyButton); err != nil {
		return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to open apply form: %v", err))
	}

	// Known fields are best effort: not every Easy Apply form asks for
	// every field, and a missing input is not a failure.
	if p.Phone != "" && page.HasElement(linkedInPhoneField) {
		if err := page.Fill(linkedInPhoneField, p.Phone); err != nil {
			log.Printf("[APPLY] Could not fill phone field: %v", err)
		}
	}

	if page.HasElement(linkedInLetterField) {
		letter := s.coverLetter(ctx, p, job)
		if err := page.Fill(linkedInLetterField, letter); err != nil {
			log.Printf("[APPLY] Could not fill cover letter field: %v", err)
		}
	}

	fillCustomAnswers(page, settings.CustomAnswers)

	if !page.HasElement(linkedInSubmitButton) {
		return failedResult(job, types.MethodEasyApply, s.now(), "submit control not found")
	}
	if err := page.Click(linkedInSubmitButton); err != nil {
		return failedResult(job, types.MethodEasyApply, s.now(), fmt.Sprintf("failed to submit application: %v", err))
	}

	return successResult(job, types.MethodEasyApply, s.now())
}

// fillCustomAnswers fills configured question fields by input name. Fields
// absent from this particular form are skipped.
func fillCustomAnswers(page Page, answers map[string]string) {
	for name, answer := range answers {
		for _, sel := range []string{
			fmt.Sprintf("input[name=%q]", name),
			fmt.Sprintf("textarea[name=%q]", name),
		} {
			if page.HasElement(sel) {
				if err := page.Fill(sel, answer); err != nil {
					log.Printf("[APPLY] Could not fill custom answer %s: %v", name, err)
				}
				break
			}
		}
	}
}
