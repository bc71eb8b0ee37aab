package apply

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
)

// maxJitter bounds the random component added to the inter-job delay.
const maxJitter = 5 * time.Second

// Orchestrator runs the apply loop: it filters and dedups jobs, dispatches
// accepted ones to the platform strategy, and keeps the quota and dedup
// bookkeeping. Strategies never touch that state. One Orchestrator serves
// one run at a time; it is not safe for concurrent runs.
type Orchestrator struct {
	strategies map[types.Platform]Strategy
	fallback   Strategy

	applied map[string]bool

	sleep  func(ctx context.Context, d time.Duration) bool
	jitter func() time.Duration
	now    func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSleeper injects the delay function, letting tests run without waiting.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) bool) OrchestratorOption {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// WithJitter injects the random pacing jitter source.
func WithJitter(jitter func() time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.jitter = jitter }
}

// WithClock injects the time source used for result timestamps.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an Orchestrator dispatching to the given
// strategies. Platforms without a strategy fall back to the external-site
// strategy, which skips.
func NewOrchestrator(strategies []Strategy, opts ...OrchestratorOption) *Orchestrator {
	byPlatform := make(map[types.Platform]Strategy, len(strategies))
	for _, s := range strategies {
		byPlatform[s.Platform()] = s
	}

	o := &Orchestrator{
		strategies: byPlatform,
		fallback:   NewExternalStrategy(),
		applied:    make(map[string]bool),
		sleep:      sleepCtx,
		jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(maxJitter)))
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MarkApplied seeds the dedup set, typically from persisted application
// history, so earlier runs' submissions are skipped.
func (o *Orchestrator) MarkApplied(keys ...string) {
	for _, k := range keys {
		if k != "" {
			o.applied[k] = true
		}
	}
}

// ApplyToJobs processes jobs strictly in the order given and returns one
// result per processed job, in that same order. Jobs beyond the quota
// produce no result at all. The returned error is non-nil only when ctx
// was cancelled; results accumulated before the cancellation are still
// returned.
func (o *Orchestrator) ApplyToJobs(ctx context.Context, jobs []types.JobListing, p *types.UserProfile, settings types.ApplySettings) ([]types.ApplicationResult, error) {
	results := []types.ApplicationResult{}
	attempts := 0

	for i := range jobs {
		job := &jobs[i]

		if err := ctx.Err(); err != nil {
			return results, err
		}

		// Quota exhaustion is a silent stop, not an error: remaining jobs
		// are deferred to a future run and produce no result entries.
		// A quota of zero admits no attempts at all; callers that want a
		// default normalize it before the loop.
		if attempts >= settings.MaxApplicationsPerRun {
			log.Printf("[APPLY] Quota of %d attempts reached, stopping with %d jobs remaining",
				settings.MaxApplicationsPerRun, len(jobs)-i)
			break
		}

		key := dedupKey(job)

		if settings.SkipAppliedJobs && o.applied[key] {
			results = append(results, o.skipResult(job, "already applied"))
			continue
		}

		if settings.OnlyEasyApply && !job.EasyApply {
			results = append(results, o.skipResult(job, "not easy-apply"))
			continue
		}

		res, clean := o.attempt(ctx, o.strategyFor(job.Platform), job, p, settings)
		results = append(results, res)

		// A strategy-level skip (external flow) consumed no attempt slot.
		if res.Status != types.StatusSkipped {
			attempts++
			if res.Status == types.StatusSuccess {
				o.applied[key] = true
			}

			// Pace the next attempt, except when this one blew through the
			// strategy boundary.
			if clean && i < len(jobs)-1 {
				if !o.sleep(ctx, o.delay(settings)) {
					return results, ctx.Err()
				}
			}
		}
	}

	return results, nil
}

// strategyFor returns the strategy registered for a platform, or the
// external fallback.
func (o *Orchestrator) strategyFor(platform types.Platform) Strategy {
	if s, ok := o.strategies[platform]; ok {
		return s
	}
	return o.fallback
}

// attempt invokes one strategy with panic isolation. A panic becomes a
// failed result and clean=false so the loop survives a bad listing.
func (o *Orchestrator) attempt(ctx context.Context, s Strategy, job *types.JobListing, p *types.UserProfile, settings types.ApplySettings) (res types.ApplicationResult, clean bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[APPLY] Attempt for %s panicked: %v", job.ID, r)
			res = failedResult(job, "", o.now(), fmt.Sprintf("attempt aborted: %v", r))
			clean = false
		}
	}()

	return s.Apply(ctx, job, p, settings), true
}

func (o *Orchestrator) skipResult(job *types.JobListing, reason string) types.ApplicationResult {
	return types.ApplicationResult{
		JobID:     job.ID,
		JobTitle:  job.Title,
		Company:   job.Company,
		Status:    types.StatusSkipped,
		Reason:    reason,
		AppliedAt: o.now(),
	}
}

// delay is the base inter-job delay plus random jitter.
func (o *Orchestrator) delay(settings types.ApplySettings) time.Duration {
	return time.Duration(settings.DelaySeconds)*time.Second + o.jitter()
}

// dedupKey prefers the listing URL so the same job dedups across runs even
// when boards rotate their internal IDs.
func dedupKey(job *types.JobListing) string {
	if job.URL != "" {
		return job.URL
	}
	return job.ID
}

// sleepCtx sleeps for d unless ctx is cancelled first. Returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
