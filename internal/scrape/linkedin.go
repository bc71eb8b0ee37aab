package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/auto-applier/internal/types"
)

const linkedInSearchBase = "https://www.linkedin.com/jobs/search/"

// LinkedInScraper reads the LinkedIn job search results page.
type LinkedInScraper struct {
	open OpenPageFunc
}

// NewLinkedInScraper creates a LinkedIn scraper backed by a page opener.
func NewLinkedInScraper(open OpenPageFunc) *LinkedInScraper {
	return &LinkedInScraper{open: open}
}

// Platform identifies which job board this scraper serves.
func (s *LinkedInScraper) Platform() types.Platform { return types.PlatformLinkedIn }

// Search loads the search results page and extracts its listings.
func (s *LinkedInScraper) Search(ctx context.Context, criteria types.SearchCriteria) ([]types.JobListing, error) {
	page, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open search page: %w", err)
	}
	defer page.Close()

	searchURL := buildLinkedInSearchURL(criteria)
	log.Printf("[SCRAPE] Searching linkedin: %s", searchURL)

	if err := page.Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("search navigation failed: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	jobs, err := parseLinkedInResults(html)
	if err != nil {
		return nil, err
	}
	log.Printf("[SCRAPE] Found %d linkedin listings", len(jobs))
	return jobs, nil
}

// buildLinkedInSearchURL maps search criteria onto LinkedIn's query params.
func buildLinkedInSearchURL(criteria types.SearchCriteria) string {
	q := url.Values{}
	q.Set("keywords", criteria.Keywords)
	if criteria.Location != "" {
		q.Set("location", criteria.Location)
	}

	// f_TPR filters by posting age in seconds.
	switch criteria.DateRange {
	case "day":
		q.Set("f_TPR", "r86400")
	case "week":
		q.Set("f_TPR", "r604800")
	case "month":
		q.Set("f_TPR", "r2592000")
	}

	switch criteria.ExperienceLevel {
	case "entry":
		q.Set("f_E", "1,2")
	case "mid":
		q.Set("f_E", "3")
	case "senior":
		q.Set("f_E", "4,5")
	}

	switch criteria.JobType {
	case "fulltime":
		q.Set("f_JT", "F")
	case "parttime":
		q.Set("f_JT", "P")
	case "contract":
		q.Set("f_JT", "C")
	}

	return linkedInSearchBase + "?" + q.Encode()
}

// parseLinkedInResults extracts listings from the search results markup.
// Cards missing a title or link are dropped rather than failing the batch.
func parseLinkedInResults(html string) ([]types.JobListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	jobs := []types.JobListing{}
	doc.Find(".job-search-card, .base-card").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find(".base-search-card__title").First().Text())
		jobURL, _ := card.Find("a.base-card__full-link").First().Attr("href")
		if jobURL == "" {
			jobURL, _ = card.Find("a").First().Attr("href")
		}
		if title == "" || jobURL == "" {
			return
		}

		job := types.JobListing{
			ID:        linkedInJobID(card, jobURL),
			Title:     title,
			Company:   cleanText(card.Find(".base-search-card__subtitle").First().Text()),
			Location:  cleanText(card.Find(".job-search-card__location").First().Text()),
			URL:       stripTracking(jobURL),
			Platform:  types.PlatformLinkedIn,
			EasyApply: strings.Contains(card.Text(), "Easy Apply"),
		}
		jobs = append(jobs, job)
	})

	return jobs, nil
}

// linkedInJobID prefers the card's entity URN and falls back to the numeric
// ID embedded in the job URL.
func linkedInJobID(card *goquery.Selection, jobURL string) string {
	if urn, ok := card.Attr("data-entity-urn"); ok {
		if i := strings.LastIndex(urn, ":"); i >= 0 {
			return urn[i+1:]
		}
	}

	// .../jobs/view/some-title-1234567890?... → 1234567890
	trimmed := stripTracking(jobURL)
	trimmed = strings.TrimSuffix(trimmed, "/")
	if i := strings.LastIndex(trimmed, "-"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// stripTracking drops the query string from a listing URL so the same job
// always dedups to the same URL.
func stripTracking(jobURL string) string {
	if i := strings.Index(jobURL, "?"); i >= 0 {
		return jobURL[:i]
	}
	return jobURL
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
