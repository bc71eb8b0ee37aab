package types

import "time"

// ApplyStatus is the outcome classification of one application attempt.
type ApplyStatus string

const (
	// StatusSuccess means the application was submitted
	StatusSuccess ApplyStatus = "success"
	// StatusFailed means the attempt ran but did not submit
	StatusFailed ApplyStatus = "failed"
	// StatusSkipped means the job was not attempted
	StatusSkipped ApplyStatus = "skipped"
)

// ApplyMethod is how an application was (or would have been) submitted.
type ApplyMethod string

const (
	// MethodEasyApply is a platform-native in-page application flow
	MethodEasyApply ApplyMethod = "easy_apply"
	// MethodExternal is a redirect to an external company site
	MethodExternal ApplyMethod = "external"
	// MethodFormFill is a generic form-fill flow
	MethodFormFill ApplyMethod = "form_fill"
)

// ApplySettings is the per-run application policy. Immutable during a run.
type ApplySettings struct {
	MaxApplicationsPerRun int               `json:"max_applications_per_run"`
	OnlyEasyApply         bool              `json:"only_easy_apply"`
	SkipAppliedJobs       bool              `json:"skip_applied_jobs"`
	CustomAnswers         map[string]string `json:"custom_answers,omitempty"`
	DelaySeconds          int               `json:"delay_between_apps"` // base inter-application delay
}

// ApplicationResult is the outcome of processing one job. Created exactly
// once per processed job and never mutated afterwards.
type ApplicationResult struct {
	JobID     string      `json:"job_id"`
	JobTitle  string      `json:"job_title"`
	Company   string      `json:"company"`
	Status    ApplyStatus `json:"status"`
	Reason    string      `json:"reason,omitempty"`
	AppliedAt time.Time   `json:"applied_at"`
	Method    ApplyMethod `json:"application_method"`
}

// ApplicationRecord is one persisted row of application history. It extends
// ApplicationResult with the run context the HTTP layer stores alongside it.
type ApplicationRecord struct {
	UserID         string      `json:"user_id"`
	JobID          string      `json:"job_id"`
	JobTitle       string      `json:"job_title"`
	Company        string      `json:"company"`
	Platform       Platform    `json:"platform"`
	JobURL         string      `json:"job_url"`
	Method         ApplyMethod `json:"application_method"`
	Result         ApplyStatus `json:"application_result"`
	FailureReason  string      `json:"failure_reason,omitempty"`
	CoverLetter    string      `json:"cover_letter,omitempty"`
	SearchKeywords string      `json:"search_keywords,omitempty"`
	SearchLocation string      `json:"search_location,omitempty"`
	AppliedAt      time.Time   `json:"applied_at"`
}
