// Package pipeline provides the high-level orchestration for one application run.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/auto-applier/internal/apply"
	"github.com/jonathan/auto-applier/internal/auth"
	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/db"
	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/profile"
	"github.com/jonathan/auto-applier/internal/scrape"
	"github.com/jonathan/auto-applier/internal/session"
	"github.com/jonathan/auto-applier/internal/stats"
	"github.com/jonathan/auto-applier/internal/types"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for one application run
type RunOptions struct {
	Profile  *types.UserProfile // Required: the candidate applying
	Criteria types.SearchCriteria
	Platform types.Platform
	Settings types.ApplySettings

	// Platform login. Password empty means manual login only.
	Identity string
	Password string

	// Persistence. UserID scopes history and stats rows; empty skips both.
	UserID      string
	DatabaseURL string
	Stats       *stats.Registry

	SessionDir string
	APIKey     string // Gemini key for cover letter polish; empty disables it
	Headless   bool
	Verbose    bool
	OnProgress ProgressCallback
}

// RunReport summarizes one completed run
type RunReport struct {
	Platform      types.Platform            `json:"platform"`
	JobsFound     int                       `json:"jobs_found"`
	Results       []types.ApplicationResult `json:"results"`
	Attempted     int                       `json:"attempted"`
	Succeeded     int                       `json:"succeeded"`
	Failed        int                       `json:"failed"`
	Skipped       int                       `json:"skipped"`
	Authenticated bool                      `json:"authenticated"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Run executes one full application run: browser session, platform login,
// search, apply loop, and history/stats persistence.
func Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	if opts.Profile == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if opts.Criteria.Keywords == "" {
		return nil, fmt.Errorf("search keywords are required")
	}
	if opts.Identity == "" {
		opts.Identity = opts.Profile.Email
	}

	report := &RunReport{Platform: opts.Platform}

	// One browser session is shared across all page scopes of the run.
	emitProgress(&opts, "browser", "Starting browser session", nil)
	browserSession, err := browser.NewSession(ctx, browser.Options{
		Headless: opts.Headless,
		Verbose:  opts.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer browserSession.Close()

	// Authenticate on platforms that require a signed-in session.
	if spec, ok := auth.SpecFor(opts.Platform); ok {
		emitProgress(&opts, "auth", fmt.Sprintf("Authenticating on %s", opts.Platform), nil)

		store, err := session.NewStore(opts.SessionDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}

		engine := auth.NewEngine(store,
			func(ctx context.Context) (auth.Page, error) { return browserSession.NewPage(ctx) },
			auth.WithVerbose(opts.Verbose),
		)
		authed, err := engine.EnsureAuthenticated(ctx, spec, opts.Identity, opts.Password)
		if err != nil {
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
		if !authed {
			return nil, fmt.Errorf("login on %s did not complete within the wait window", opts.Platform)
		}
		report.Authenticated = true
	}

	// Search for matching listings.
	emitProgress(&opts, "search", fmt.Sprintf("Searching %s for %q", opts.Platform, opts.Criteria.Keywords), nil)
	scraper := scrape.New(opts.Platform,
		func(ctx context.Context) (scrape.Page, error) { return browserSession.NewPage(ctx) },
	)
	jobs, err := scraper.Search(ctx, opts.Criteria)
	if err != nil {
		return nil, fmt.Errorf("job search failed: %w", err)
	}
	report.JobsFound = len(jobs)
	emitProgress(&opts, "search", fmt.Sprintf("Found %d listings", len(jobs)), nil)

	if len(jobs) == 0 {
		report.Results = []types.ApplicationResult{}
		return report, nil
	}

	// Database is optional; a connection failure degrades to an
	// in-memory-only run rather than aborting it.
	var database *db.DB
	if opts.DatabaseURL != "" {
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			log.Printf("[PIPELINE] Warning: failed to connect to database, continuing without persistence: %v", err)
			database = nil
		} else {
			defer database.Close()
		}
	}

	orchestrator := apply.NewOrchestrator(buildStrategies(ctx, &opts, browserSession))

	// Seed the dedup set from persisted history so earlier runs count.
	if database != nil && opts.UserID != "" && opts.Settings.SkipAppliedJobs {
		urls, err := database.AppliedURLs(ctx, opts.UserID)
		if err != nil {
			log.Printf("[PIPELINE] Warning: could not load applied history: %v", err)
		} else {
			orchestrator.MarkApplied(urls...)
		}
	}

	emitProgress(&opts, "apply", fmt.Sprintf("Applying to up to %d jobs", opts.Settings.MaxApplicationsPerRun), nil)
	results, runErr := orchestrator.ApplyToJobs(ctx, jobs, opts.Profile, opts.Settings)
	report.Results = results
	for _, res := range results {
		switch res.Status {
		case types.StatusSuccess:
			report.Succeeded++
			report.Attempted++
		case types.StatusFailed:
			report.Failed++
			report.Attempted++
		case types.StatusSkipped:
			report.Skipped++
		}
	}

	persistResults(ctx, &opts, database, jobs, results)

	emitProgress(&opts, "done",
		fmt.Sprintf("Run complete: %d succeeded, %d failed, %d skipped", report.Succeeded, report.Failed, report.Skipped),
		report)

	// A cancellation mid-loop still reports what completed.
	if runErr != nil {
		return report, fmt.Errorf("run cancelled: %w", runErr)
	}
	return report, nil
}

// buildStrategies wires the per-platform strategies, with LLM cover letter
// polish layered in when an API key is available.
func buildStrategies(ctx context.Context, opts *RunOptions, browserSession *browser.Session) []apply.Strategy {
	openPage := func(ctx context.Context) (apply.Page, error) { return browserSession.NewPage(ctx) }

	var letter apply.CoverLetterFunc
	if opts.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), opts.APIKey)
		if err != nil {
			log.Printf("[PIPELINE] Warning: LLM client unavailable, using template cover letters: %v", err)
		} else {
			polisher := profile.NewGeminiPolisher(client)
			letter = func(ctx context.Context, p *types.UserProfile, job *types.JobListing) string {
				rendered := profile.RenderCoverLetter(p, job)
				polished, _ := polisher.Polish(ctx, rendered, job)
				return polished
			}
		}
	}

	return []apply.Strategy{
		apply.NewLinkedInStrategy(openPage, letter, opts.Verbose),
		apply.NewIndeedStrategy(openPage, opts.Verbose),
	}
}

// persistResults writes history rows and stats for every result. Failures
// are logged, not fatal: the run already happened.
func persistResults(ctx context.Context, opts *RunOptions, database *db.DB, jobs []types.JobListing, results []types.ApplicationResult) {
	if opts.UserID == "" {
		return
	}

	byID := make(map[string]*types.JobListing, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	for _, res := range results {
		rec := types.ApplicationRecord{
			UserID:         opts.UserID,
			JobID:          res.JobID,
			JobTitle:       res.JobTitle,
			Company:        res.Company,
			Platform:       opts.Platform,
			Method:         res.Method,
			Result:         res.Status,
			FailureReason:  res.Reason,
			SearchKeywords: opts.Criteria.Keywords,
			SearchLocation: opts.Criteria.Location,
			AppliedAt:      res.AppliedAt,
		}
		if job, ok := byID[res.JobID]; ok {
			rec.JobURL = job.URL
		}

		if opts.Stats != nil {
			opts.Stats.Record(opts.UserID, rec)
		}
		if database != nil {
			if _, err := database.SaveApplication(ctx, &rec); err != nil {
				log.Printf("[PIPELINE] Warning: could not persist application %s: %v", res.JobID, err)
			}
		}
	}
}

// SearchJobs runs a search-only pass: browser session, scrape, no
// authentication and no applications.
func SearchJobs(ctx context.Context, platform types.Platform, criteria types.SearchCriteria, headless, verbose bool) ([]types.JobListing, error) {
	if criteria.Keywords == "" {
		return nil, fmt.Errorf("search keywords are required")
	}

	browserSession, err := browser.NewSession(ctx, browser.Options{Headless: headless, Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer browserSession.Close()

	scraper := scrape.New(platform,
		func(ctx context.Context) (scrape.Page, error) { return browserSession.NewPage(ctx) },
	)
	return scraper.Search(ctx, criteria)
}
