// Package stats aggregates per-user application statistics.
package stats

import (
	"sync"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
)

// Registry keeps application records per user and derives statistics on
// demand, so time-window counts are always relative to the query time.
type Registry struct {
	mu      sync.RWMutex
	records map[string][]types.ApplicationRecord
	now     func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string][]types.ApplicationRecord),
		now:     time.Now,
	}
}

// Record stores one application outcome for a user.
func (r *Registry) Record(userID string, rec types.ApplicationRecord) {
	if userID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[userID] = append(r.records[userID], rec)
}

// Get derives the user's statistics. Unknown users get zeroed stats, not an
// error. Skipped outcomes appear in the status breakdown but do not count
// as applications.
func (r *Registry) Get(userID string) *types.UserStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	stats := &types.UserStats{
		PlatformBreakdown: map[string]int{},
		CompanyBreakdown:  map[string]int{},
		StatusBreakdown:   map[string]int{},
	}

	for _, rec := range r.records[userID] {
		stats.StatusBreakdown[string(rec.Result)]++
		if rec.Result == types.StatusSkipped {
			continue
		}

		stats.TotalApplications++
		if rec.Result != types.StatusSuccess {
			continue
		}

		stats.SuccessfulApplications++
		stats.PlatformBreakdown[string(rec.Platform)]++
		if rec.Company != "" {
			stats.CompanyBreakdown[rec.Company]++
		}
		if rec.AppliedAt.After(weekAgo) {
			stats.ApplicationsThisWeek++
		}
		if rec.AppliedAt.After(monthAgo) {
			stats.ApplicationsThisMonth++
		}
		if stats.LastApplicationAt == nil || rec.AppliedAt.After(*stats.LastApplicationAt) {
			at := rec.AppliedAt
			stats.LastApplicationAt = &at
		}
	}

	if stats.TotalApplications > 0 {
		stats.SuccessRate = float64(stats.SuccessfulApplications) / float64(stats.TotalApplications)
	}
	return stats
}

// Clear drops all records, or one user's records when a userID is given.
func (r *Registry) Clear(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID == "" {
		r.records = make(map[string][]types.ApplicationRecord)
		return
	}
	delete(r.records, userID)
}
