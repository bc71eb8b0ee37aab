package scrape

import (
	"net/url"
	"testing"

	"github.com/jonathan/auto-applier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indeedFixture = `
<html><body>
<div id="mosaic-jobResults">
  <div class="job_seen_beacon">
    <h2 class="jobTitle"><a data-jk="abc123" href="/rc/clk?jk=abc123&from=serp"><span>Backend Engineer (Go)</span></a></h2>
    <span data-testid="company-name">Initech</span>
    <div data-testid="text-location">Denver, CO</div>
    <div class="salary-snippet-container">$140,000 - $170,000 a year</div>
    <div data-testid="indeedApply">Easily apply</div>
  </div>
  <div class="job_seen_beacon">
    <h2 class="jobTitle"><a data-jk="def456" href="/rc/clk?jk=def456"><span>Site Reliability Engineer</span></a></h2>
    <span data-testid="company-name">Hooli</span>
    <div data-testid="text-location">Remote</div>
  </div>
  <div class="job_seen_beacon">
    <h2 class="jobTitle"><span>Orphan Card</span></h2>
  </div>
</div>
</body></html>`

func TestParseIndeedResults(t *testing.T) {
	jobs, err := parseIndeedResults(indeedFixture)
	require.NoError(t, err)
	require.Len(t, jobs, 2, "card without a link or job key must be dropped")

	first := jobs[0]
	assert.Equal(t, "abc123", first.ID)
	assert.Equal(t, "Backend Engineer (Go)", first.Title)
	assert.Equal(t, "Initech", first.Company)
	assert.Equal(t, "Denver, CO", first.Location)
	assert.Equal(t, "$140,000 - $170,000 a year", first.Salary)
	assert.Equal(t, "https://www.indeed.com/rc/clk?jk=abc123&from=serp", first.URL)
	assert.Equal(t, types.PlatformIndeed, first.Platform)
	assert.True(t, first.EasyApply)

	second := jobs[1]
	assert.Equal(t, "def456", second.ID)
	assert.False(t, second.EasyApply)
	assert.Empty(t, second.Salary)
}

func TestBuildIndeedSearchURL(t *testing.T) {
	raw := buildIndeedSearchURL(types.SearchCriteria{
		Keywords:  "golang",
		Location:  "Denver, CO",
		DateRange: "day",
		JobType:   "contract",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "golang", q.Get("q"))
	assert.Equal(t, "Denver, CO", q.Get("l"))
	assert.Equal(t, "1", q.Get("fromage"))
	assert.Equal(t, "contract", q.Get("jt"))
}
