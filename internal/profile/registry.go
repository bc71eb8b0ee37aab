// Package profile manages user profiles and the cover letters generated
// from them.
package profile

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/auto-applier/internal/types"
)

// DefaultCoverLetterTemplate is used when a profile does not supply its own.
const DefaultCoverLetterTemplate = `Dear Hiring Manager,

I am excited to apply for the {jobTitle} position at {companyName}. With my background in {skills}, I believe I would be a valuable addition to your team.

{experience}

I look forward to discussing how my skills align with your needs.

Best regards,
{firstName} {lastName}`

// Registry is an in-memory profile store keyed by profile ID.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*types.UserProfile
	now      func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[string]*types.UserProfile),
		now:      time.Now,
	}
}

// Create stores a new profile, assigning an ID and filling defaults. The
// stored profile is returned; the input is not mutated.
func (r *Registry) Create(p types.UserProfile) (*types.UserProfile, error) {
	if p.Email == "" {
		return nil, fmt.Errorf("profile email is required")
	}
	if p.FirstName == "" || p.LastName == "" {
		return nil, fmt.Errorf("profile name is required")
	}

	p.ID = uuid.New().String()
	now := r.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ApplicationData.CoverLetterTemplate == "" {
		p.ApplicationData.CoverLetterTemplate = DefaultCoverLetterTemplate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = &p
	return &p, nil
}

// Get returns the profile with the given ID, or nil when unknown.
func (r *Registry) Get(id string) *types.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles[id]
}

// Update replaces a stored profile's mutable fields. The ID and CreatedAt of
// the stored profile are preserved.
func (r *Registry) Update(id string, p types.UserProfile) (*types.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s not found", id)
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.now()
	if p.ApplicationData.CoverLetterTemplate == "" {
		p.ApplicationData.CoverLetterTemplate = DefaultCoverLetterTemplate
	}

	r.profiles[id] = &p
	return &p, nil
}

// Delete removes a profile. Unknown IDs are a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, id)
}

// Clear drops every stored profile, resetting the registry for tests.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = make(map[string]*types.UserProfile)
}

// List returns all stored profiles in unspecified order.
func (r *Registry) List() []*types.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.UserProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out
}
