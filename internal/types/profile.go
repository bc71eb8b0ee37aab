package types

import "time"

// WorkExperience is one prior role on a profile's resume.
type WorkExperience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Education is one education entry on a profile's resume.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationYear string `json:"graduation_year"`
	GPA            string `json:"gpa,omitempty"`
}

// Resume holds the resume portion of a user profile.
type Resume struct {
	Summary       string           `json:"summary,omitempty"`
	Skills        []string         `json:"skills"`
	Experience    []WorkExperience `json:"experience"`
	Education     []Education      `json:"education"`
	ResumeFileURL string           `json:"resume_file_url,omitempty"`
}

// SalaryRange is an expected salary band.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// JobPreferences holds a user's search preferences.
type JobPreferences struct {
	DesiredRoles       []string    `json:"desired_roles"`
	PreferredLocations []string    `json:"preferred_locations"`
	SalaryRange        SalaryRange `json:"salary_range"`
	WorkType           string      `json:"work_type"`        // remote, hybrid, onsite, any
	ExperienceLevel    string      `json:"experience_level"` // entry, mid, senior
}

// ApplicationData holds the fields used to fill application forms.
type ApplicationData struct {
	CoverLetterTemplate string `json:"cover_letter_template"`
	PortfolioURL        string `json:"portfolio_url,omitempty"`
	GithubURL           string `json:"github_url,omitempty"`
	LinkedinURL         string `json:"linkedin_url,omitempty"`
	AvailableStartDate  string `json:"available_start_date"`
	SponsorshipRequired bool   `json:"sponsorship_required"`
}

// UserProfile is the read-only profile the orchestrator and strategies
// consume when filling applications.
type UserProfile struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Phone           string          `json:"phone"`
	Location        string          `json:"location,omitempty"`
	Resume          Resume          `json:"resume"`
	JobPreferences  JobPreferences  `json:"job_preferences"`
	ApplicationData ApplicationData `json:"application_data"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
