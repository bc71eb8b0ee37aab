package types

import "time"

// UserStats aggregates application counters for one user. Counters are
// updated only after a successful outcome is recorded; breakdowns count
// every recorded outcome.
type UserStats struct {
	TotalApplications      int            `json:"total_applications"`
	SuccessfulApplications int            `json:"successful_applications"`
	ApplicationsThisWeek   int            `json:"applications_this_week"`
	ApplicationsThisMonth  int            `json:"applications_this_month"`
	LastApplicationAt      *time.Time     `json:"last_application_date,omitempty"`
	PlatformBreakdown      map[string]int `json:"platform_breakdown,omitempty"`
	CompanyBreakdown       map[string]int `json:"company_breakdown,omitempty"`
	StatusBreakdown        map[string]int `json:"status_breakdown,omitempty"`
	SuccessRate            float64        `json:"success_rate"`
}
