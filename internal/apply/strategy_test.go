package apply

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/auto-applier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formPage simulates a job page whose elements are controlled per test.
type formPage struct {
	present     map[string]bool
	filled      map[string]string
	clicked     []string
	navigateErr error
	clickErr    map[string]error

	closeCalls int
}

func newFormPage(present ...string) *formPage {
	p := &formPage{
		present:  map[string]bool{},
		filled:   map[string]string{},
		clickErr: map[string]error{},
	}
	for _, sel := range present {
		p.present[sel] = true
	}
	return p
}

func (p *formPage) Navigate(string) error { return p.navigateErr }

func (p *formPage) HasElement(sel string) bool { return p.present[sel] }

func (p *formPage) Fill(sel, value string) error {
	p.filled[sel] = value
	return nil
}

func (p *formPage) Click(sel string) error {
	p.clicked = append(p.clicked, sel)
	return p.clickErr[sel]
}

func (p *formPage) Close() { p.closeCalls++ }

func opener(p *formPage, err error) (OpenPageFunc, *int) {
	opens := 0
	return func(context.Context) (Page, error) {
		opens++
		if err != nil {
			return nil, err
		}
		return p, nil
	}, &opens
}

func linkedInJob() *types.JobListing {
	return &types.JobListing{
		ID:        "42",
		Title:     "Go Developer",
		Company:   "Acme",
		URL:       "https://www.linkedin.com/jobs/view/42",
		Platform:  types.PlatformLinkedIn,
		EasyApply: true,
	}
}

func testUser() *types.UserProfile {
	return &types.UserProfile{
		FirstName: "Alex",
		LastName:  "Rivera",
		Phone:     "555-0100",
		Resume:    types.Resume{Skills: []string{"Go"}},
		ApplicationData: types.ApplicationData{
			CoverLetterTemplate: "Letter for {jobTitle} at {companyName}",
		},
	}
}

func TestLinkedInApplyHappyPath(t *testing.T) {
	page := newFormPage(linkedInApplyButton, linkedInPhoneField, linkedInLetterField, linkedInSubmitButton)
	open, opens := opener(page, nil)
	s := NewLinkedInStrategy(open, nil, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, types.MethodEasyApply, res.Method)
	assert.Equal(t, "42", res.JobID)
	assert.Equal(t, "555-0100", page.filled[linkedInPhoneField])
	assert.Equal(t, "Letter for Go Developer at Acme", page.filled[linkedInLetterField])
	assert.Contains(t, page.clicked, linkedInSubmitButton)

	assert.Equal(t, 1, *opens)
	assert.Equal(t, 1, page.closeCalls, "page released exactly once")
}

func TestLinkedInApplyMissingApplyControl(t *testing.T) {
	page := newFormPage() // nothing present
	open, _ := opener(page, nil)
	s := NewLinkedInStrategy(open, nil, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, "apply control not found", res.Reason)
	assert.Equal(t, 1, page.closeCalls, "page released on the failure path too")
}

func TestLinkedInApplyMissingSubmitControl(t *testing.T) {
	page := newFormPage(linkedInApplyButton)
	open, _ := opener(page, nil)
	s := NewLinkedInStrategy(open, nil, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, "submit control not found", res.Reason)
	assert.Equal(t, 1, page.closeCalls)
}

func TestLinkedInApplyFallbackApplyButton(t *testing.T) {
	page := newFormPage(linkedInApplyButtonAlt, linkedInSubmitButton)
	open, _ := opener(page, nil)
	s := NewLinkedInStrategy(open, nil, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Contains(t, page.clicked, linkedInApplyButtonAlt)
}

func TestLinkedInApplyCustomAnswers(t *testing.T) {
	page := newFormPage(linkedInApplyButton, linkedInSubmitButton, `input[name="yearsOfExperience"]`)
	open, _ := opener(page, nil)
	s := NewLinkedInStrategy(open, nil, false)

	settings := types.ApplySettings{CustomAnswers: map[string]string{"yearsOfExperience": "5"}}
	res := s.Apply(context.Background(), linkedInJob(), testUser(), settings)

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, "5", page.filled[`input[name="yearsOfExperience"]`])
}

func TestLinkedInApplyNavigationFailure(t *testing.T) {
	page := newFormPage(linkedInApplyButton, linkedInSubmitButton)
	page.navigateErr = errors.New("net::ERR_TIMED_OUT")
	open, _ := opener(page, nil)
	s := NewLinkedInStrategy(open, nil, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "failed to load listing")
	assert.Equal(t, 1, page.closeCalls)
}

func TestLinkedInApplyPageOpenFailure(t *testing.T) {
	open, _ := opener(nil, errors.New("browser gone"))
	s := NewLinkedInStrategy(open, nil, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "failed to open page")
}

func TestLinkedInApplyCustomCoverLetterFunc(t *testing.T) {
	page := newFormPage(linkedInApplyButton, linkedInLetterField, linkedInSubmitButton)
	open, _ := opener(page, nil)
	letter := func(context.Context, *types.UserProfile, *types.JobListing) string {
		return "polished letter"
	}
	s := NewLinkedInStrategy(open, letter, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, "polished letter", page.filled[linkedInLetterField])
}

func TestIndeedApplyHappyPath(t *testing.T) {
	page := newFormPage(indeedApplyButton, indeedContinueButton)
	open, _ := opener(page, nil)
	s := NewIndeedStrategy(open, false)

	jobListing := linkedInJob()
	jobListing.Platform = types.PlatformIndeed

	res := s.Apply(context.Background(), jobListing, testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, []string{indeedApplyButton, indeedContinueButton}, page.clicked)
	assert.Equal(t, 1, page.closeCalls)
}

func TestIndeedApplyMissingApplyControl(t *testing.T) {
	page := newFormPage()
	open, _ := opener(page, nil)
	s := NewIndeedStrategy(open, false)

	res := s.Apply(context.Background(), linkedInJob(), testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, "apply control not found", res.Reason)
}

func TestExternalStrategyAlwaysSkips(t *testing.T) {
	s := NewExternalStrategy()

	jobListing := linkedInJob()
	jobListing.Platform = types.PlatformMonster

	res := s.Apply(context.Background(), jobListing, testUser(), types.ApplySettings{})

	assert.Equal(t, types.StatusSkipped, res.Status)
	assert.Equal(t, "unsupported platform", res.Reason)
	assert.Equal(t, types.MethodExternal, res.Method)
}

func TestTemplateCoverLetterIsDeterministic(t *testing.T) {
	u, j := testUser(), linkedInJob()
	first := TemplateCoverLetter(context.Background(), u, j)
	require.Equal(t, first, TemplateCoverLetter(context.Background(), u, j))
	assert.Equal(t, "Letter for Go Developer at Acme", first)
}
