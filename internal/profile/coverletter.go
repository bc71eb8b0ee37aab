package profile

import (
	"strings"

	"github.com/jonathan/auto-applier/internal/types"
)

// RenderCoverLetter fills the profile's cover letter template with the
// profile's details and the target job. Rendering is pure substitution; the
// same inputs always yield the same letter.
func RenderCoverLetter(profile *types.UserProfile, job *types.JobListing) string {
	tmpl := profile.ApplicationData.CoverLetterTemplate
	if tmpl == "" {
		tmpl = DefaultCoverLetterTemplate
	}

	replacer := strings.NewReplacer(
		"{firstName}", profile.FirstName,
		"{lastName}", profile.LastName,
		"{jobTitle}", job.Title,
		"{companyName}", job.Company,
		"{skills}", strings.Join(profile.Resume.Skills, ", "),
		"{experience}", summarizeExperience(profile.Resume.Experience),
	)
	return replacer.Replace(tmpl)
}

// summarizeExperience renders the most recent role as a one-line statement,
// falling back to a generic line for profiles with no history.
func summarizeExperience(experience []types.WorkExperience) string {
	if len(experience) == 0 {
		return "I bring a strong foundation and eagerness to contribute from day one."
	}

	latest := experience[0]
	var b strings.Builder
	b.WriteString("Most recently I worked as ")
	b.WriteString(latest.Position)
	b.WriteString(" at ")
	b.WriteString(latest.Company)
	if latest.Description != "" {
		b.WriteString(", where ")
		b.WriteString(strings.TrimSuffix(lowerFirst(latest.Description), "."))
	}
	b.WriteString(".")
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
