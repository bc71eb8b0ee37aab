// Package types provides type definitions for structured data used throughout the auto-applier system.
package types

import (
	"strings"
	"time"
)

// Platform identifies a supported job board.
type Platform string

const (
	// PlatformLinkedIn is LinkedIn job search
	PlatformLinkedIn Platform = "linkedin"
	// PlatformIndeed is Indeed job search
	PlatformIndeed Platform = "indeed"
	// PlatformGlassdoor is Glassdoor job search
	PlatformGlassdoor Platform = "glassdoor"
	// PlatformDice is Dice job search
	PlatformDice Platform = "dice"
	// PlatformMonster is Monster job search
	PlatformMonster Platform = "monster"
)

// KnownPlatforms lists every platform the system recognizes.
func KnownPlatforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformIndeed, PlatformGlassdoor, PlatformDice, PlatformMonster}
}

// ParsePlatform parses a platform name. The second return value reports
// whether the name matched a known platform.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KnownPlatforms() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// JobListing is one scraped job posting. Listings are produced by the
// scrape package and consumed read-only by the orchestrator and strategies.
type JobListing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      string    `json:"salary,omitempty"`
	URL         string    `json:"url"`
	Platform    Platform  `json:"platform"`
	EasyApply   bool      `json:"is_easy_apply"`
	PostedAt    time.Time `json:"date_posted"`
}

// SearchCriteria is the input to a job search.
type SearchCriteria struct {
	Keywords        string `json:"keywords"`
	Location        string `json:"location"`
	DateRange       string `json:"date_range,omitempty"`       // day, week, month
	ExperienceLevel string `json:"experience_level,omitempty"` // entry, mid, senior
	JobType         string `json:"job_type,omitempty"`         // fulltime, parttime, contract
}
