// Package scrape turns platform job-search pages into structured listings.
package scrape

import (
	"context"
	"log"

	"github.com/jonathan/auto-applier/internal/types"
)

// Page is the subset of browser page operations a scraper needs.
type Page interface {
	Navigate(url string) error
	HTML() (string, error)
	Close()
}

// OpenPageFunc opens a scoped page within the run's browser session.
type OpenPageFunc func(ctx context.Context) (Page, error)

// Scraper fetches job listings for one platform.
type Scraper interface {
	// Platform identifies which job board this scraper serves.
	Platform() types.Platform
	// Search returns the listings matching the criteria. A platform with no
	// scraping support returns an empty slice, not an error.
	Search(ctx context.Context, criteria types.SearchCriteria) ([]types.JobListing, error)
}

// New returns the scraper for a platform. Platforms without a dedicated
// scraper get a no-op implementation so a multi-platform run degrades to the
// boards that are supported.
func New(platform types.Platform, open OpenPageFunc) Scraper {
	switch platform {
	case types.PlatformLinkedIn:
		return NewLinkedInScraper(open)
	case types.PlatformIndeed:
		return NewIndeedScraper(open)
	default:
		return &noopScraper{platform: platform}
	}
}

type noopScraper struct {
	platform types.Platform
}

func (s *noopScraper) Platform() types.Platform { return s.platform }

func (s *noopScraper) Search(context.Context, types.SearchCriteria) ([]types.JobListing, error) {
	log.Printf("[SCRAPE] No scraper implemented for %s, returning no listings", s.platform)
	return []types.JobListing{}, nil
}
