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

const indeedBase = "https://www.indeed.com"

// IndeedScraper reads the Indeed job search results page.
type IndeedScraper struct {
	open OpenPageFunc
}

// NewIndeedScraper creates an Indeed scraper backed by a page opener.
func NewIndeedScraper(open OpenPageFunc) *IndeedScraper {
	return &IndeedScraper{open: open}
}

// Platform identifies which job board this scraper serves.
func (s *IndeedScraper) Platform() types.Platform { return types.PlatformIndeed }

// Search loads the search results page and extracts its listings.
func (s *IndeedScraper) Search(ctx context.Context, criteria types.SearchCriteria) ([]types.JobListing, error) {
	page, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open search page: %w", err)
	}
	defer page.Close()

	searchURL := buildIndeedSearchURL(criteria)
	log.Printf("[SCRAPE] Searching indeed: %s", searchURL)

	if err := page.Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("search navigation failed: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	jobs, err := parseIndeedResults(html)
	if err != nil {
		return nil, err
	}
	log.Printf("[SCRAPE] Found %d indeed listings", len(jobs))
	return jobs, nil
}

// buildIndeedSearchURL maps search criteria onto Indeed's query params.
func buildIndeedSearchURL(criteria types.SearchCriteria) string {
	q := url.Values{}
	q.Set("q", criteria.Keywords)
	if criteria.Location != "" {
		q.Set("l", criteria.Location)
	}

	// fromage filters by posting age in days.
	switch criteria.DateRange {
	case "day":
		q.Set("fromage", "1")
	case "week":
		q.Set("fromage", "7")
	case "month":
		q.Set("fromage", "30")
	}

	switch criteria.JobType {
	case "fulltime":
		q.Set("jt", "fulltime")
	case "parttime":
		q.Set("jt", "parttime")
	case "contract":
		q.Set("jt", "contract")
	}

	return indeedBase + "/jobs?" + q.Encode()
}

// parseIndeedResults extracts listings from the search results markup.
func parseIndeedResults(html string) ([]types.JobListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	jobs := []types.JobListing{}
	doc.Find(".job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("h2.jobTitle a").First()
		title := cleanText(link.Text())
		if title == "" {
			title = cleanText(card.Find("h2.jobTitle span").First().Text())
		}

		href, _ := link.Attr("href")
		jobKey, _ := link.Attr("data-jk")
		if jobKey == "" {
			jobKey, _ = card.Attr("data-jk")
		}
		if title == "" || (href == "" && jobKey == "") {
			return
		}

		jobURL := href
		if strings.HasPrefix(jobURL, "/") {
			jobURL = indeedBase + jobURL
		}
		if jobURL == "" {
			jobURL = indeedBase + "/viewjob?jk=" + jobKey
		}
		if jobKey == "" {
			jobKey = stripTracking(jobURL)
		}

		jobs = append(jobs, types.JobListing{
			ID:        jobKey,
			Title:     title,
			Company:   cleanText(card.Find(`[data-testid="company-name"]`).First().Text()),
			Location:  cleanText(card.Find(`[data-testid="text-location"]`).First().Text()),
			Salary:    cleanText(card.Find(".salary-snippet-container").First().Text()),
			URL:       jobURL,
			Platform:  types.PlatformIndeed,
			EasyApply: card.Find(`[data-testid="indeedApply"]`).Length() > 0,
		})
	})

	return jobs, nil
}
