package scrape

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/jonathan/auto-applier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkedInFixture = `
<html><body>
<ul>
  <li>
    <div class="base-card job-search-card" data-entity-urn="urn:li:jobPosting:4001">
      <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/senior-go-developer-4001?refId=abc&trackingId=xyz"></a>
      <h3 class="base-search-card__title"> Senior Go Developer </h3>
      <h4 class="base-search-card__subtitle"> Acme Corp </h4>
      <span class="job-search-card__location">Remote, USA</span>
      <span class="job-search-card__benefits">Easy Apply</span>
    </div>
  </li>
  <li>
    <div class="base-card job-search-card" data-entity-urn="urn:li:jobPosting:4002">
      <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/platform-engineer-4002"></a>
      <h3 class="base-search-card__title">Platform Engineer</h3>
      <h4 class="base-search-card__subtitle">Globex</h4>
      <span class="job-search-card__location">Austin, TX</span>
    </div>
  </li>
  <li>
    <div class="base-card job-search-card">
      <h3 class="base-search-card__title">Broken Card Without Link</h3>
    </div>
  </li>
</ul>
</body></html>`

func TestParseLinkedInResults(t *testing.T) {
	jobs, err := parseLinkedInResults(linkedInFixture)
	require.NoError(t, err)
	require.Len(t, jobs, 2, "card without a link must be dropped")

	first := jobs[0]
	assert.Equal(t, "4001", first.ID)
	assert.Equal(t, "Senior Go Developer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Remote, USA", first.Location)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/senior-go-developer-4001", first.URL, "tracking params must be stripped")
	assert.Equal(t, types.PlatformLinkedIn, first.Platform)
	assert.True(t, first.EasyApply)

	second := jobs[1]
	assert.Equal(t, "4002", second.ID)
	assert.False(t, second.EasyApply)
}

func TestParseLinkedInResultsEmptyPage(t *testing.T) {
	jobs, err := parseLinkedInResults("<html><body><p>No results</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestBuildLinkedInSearchURL(t *testing.T) {
	raw := buildLinkedInSearchURL(types.SearchCriteria{
		Keywords:        "golang developer",
		Location:        "Remote",
		DateRange:       "week",
		ExperienceLevel: "mid",
		JobType:         "fulltime",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "golang developer", q.Get("keywords"))
	assert.Equal(t, "Remote", q.Get("location"))
	assert.Equal(t, "r604800", q.Get("f_TPR"))
	assert.Equal(t, "3", q.Get("f_E"))
	assert.Equal(t, "F", q.Get("f_JT"))
}

func TestBuildLinkedInSearchURLOmitsUnsetFilters(t *testing.T) {
	raw := buildLinkedInSearchURL(types.SearchCriteria{Keywords: "golang"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "golang", q.Get("keywords"))
	assert.Empty(t, q.Get("f_TPR"))
	assert.Empty(t, q.Get("f_E"))
	assert.Empty(t, q.Get("f_JT"))
	assert.Empty(t, q.Get("location"))
}

type fixturePage struct {
	html        string
	navigated   []string
	navigateErr error
	closed      bool
}

func (p *fixturePage) Navigate(url string) error {
	p.navigated = append(p.navigated, url)
	return p.navigateErr
}

func (p *fixturePage) HTML() (string, error) { return p.html, nil }

func (p *fixturePage) Close() { p.closed = true }

func TestLinkedInScraperSearchClosesPage(t *testing.T) {
	page := &fixturePage{html: linkedInFixture}
	s := NewLinkedInScraper(func(context.Context) (Page, error) { return page, nil })

	jobs, err := s.Search(context.Background(), types.SearchCriteria{Keywords: "golang"})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.True(t, page.closed)
	require.Len(t, page.navigated, 1)
	assert.Contains(t, page.navigated[0], "linkedin.com/jobs/search")
}

func TestLinkedInScraperNavigationErrorClosesPage(t *testing.T) {
	page := &fixturePage{navigateErr: errors.New("timeout")}
	s := NewLinkedInScraper(func(context.Context) (Page, error) { return page, nil })

	_, err := s.Search(context.Background(), types.SearchCriteria{Keywords: "golang"})
	assert.Error(t, err)
	assert.True(t, page.closed)
}

func TestNoopScraperReturnsEmpty(t *testing.T) {
	s := New(types.PlatformGlassdoor, nil)
	jobs, err := s.Search(context.Background(), types.SearchCriteria{Keywords: "golang"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, types.PlatformGlassdoor, s.Platform())
}
