package profile

import (
	"strings"
	"testing"

	"github.com/jonathan/auto-applier/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleProfile() *types.UserProfile {
	return &types.UserProfile{
		Email:     "dev@example.com",
		FirstName: "Alex",
		LastName:  "Rivera",
		Resume: types.Resume{
			Skills: []string{"Go", "Kubernetes", "PostgreSQL"},
			Experience: []types.WorkExperience{
				{
					Company:     "Initech",
					Position:    "Backend Engineer",
					StartDate:   "2021-03",
					Description: "Built the billing pipeline.",
				},
			},
		},
		ApplicationData: types.ApplicationData{
			CoverLetterTemplate: DefaultCoverLetterTemplate,
		},
	}
}

func sampleJob() *types.JobListing {
	return &types.JobListing{
		ID:       "123",
		Title:    "Senior Go Developer",
		Company:  "Acme Corp",
		Platform: types.PlatformLinkedIn,
	}
}

func TestRenderCoverLetterFillsAllTokens(t *testing.T) {
	letter := RenderCoverLetter(sampleProfile(), sampleJob())

	assert.Contains(t, letter, "Senior Go Developer")
	assert.Contains(t, letter, "Acme Corp")
	assert.Contains(t, letter, "Alex Rivera")
	assert.Contains(t, letter, "Go, Kubernetes, PostgreSQL")
	assert.Contains(t, letter, "Backend Engineer at Initech")

	for _, token := range []string{"{firstName}", "{lastName}", "{jobTitle}", "{companyName}", "{skills}", "{experience}"} {
		assert.NotContains(t, letter, token)
	}
}

func TestRenderCoverLetterIsDeterministic(t *testing.T) {
	p, j := sampleProfile(), sampleJob()
	first := RenderCoverLetter(p, j)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RenderCoverLetter(p, j))
	}
}

func TestRenderCoverLetterEmptyTemplateUsesDefault(t *testing.T) {
	p := sampleProfile()
	p.ApplicationData.CoverLetterTemplate = ""

	letter := RenderCoverLetter(p, sampleJob())
	assert.True(t, strings.HasPrefix(letter, "Dear Hiring Manager,"))
	assert.Contains(t, letter, "Acme Corp")
}

func TestRenderCoverLetterNoExperience(t *testing.T) {
	p := sampleProfile()
	p.Resume.Experience = nil

	letter := RenderCoverLetter(p, sampleJob())
	assert.NotContains(t, letter, "{experience}")
	assert.Contains(t, letter, "strong foundation")
}

func TestRenderCoverLetterCustomTemplate(t *testing.T) {
	p := sampleProfile()
	p.ApplicationData.CoverLetterTemplate = "Hi {companyName}, I am {firstName}."

	letter := RenderCoverLetter(p, sampleJob())
	assert.Equal(t, "Hi Acme Corp, I am Alex.", letter)
}
