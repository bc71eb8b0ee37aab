// Package session persists browser login sessions, one record per identity
// and platform pair.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
)

// MaxAge is how long a saved session stays usable. A session exactly this
// old is still valid; anything older is treated as absent.
const MaxAge = 7 * 24 * time.Hour

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Store reads and writes session records under a single directory. Load is
// deliberately soft-failing: a missing, corrupt, or stale record returns nil
// so the caller re-runs the login flow instead of aborting.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "browser-sessions"
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create sessions dir %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Load returns the saved session for an identity on a platform, or nil when
// no usable session exists.
func (s *Store) Load(identity string, platform types.Platform) *types.AuthSession {
	path := s.path(identity, platform)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[SESSION] Failed to read %s: %v", path, err)
		}
		return nil
	}

	var sess types.AuthSession
	if err := json.Unmarshal(data, &sess); err != nil {
		log.Printf("[SESSION] Corrupt session record %s: %v", path, err)
		return nil
	}

	if !sess.IsValid {
		return nil
	}
	if sess.Age(s.now()) > MaxAge {
		log.Printf("[SESSION] Session for %s on %s expired", identity, platform)
		return nil
	}

	return &sess
}

// Save writes a session record, overwriting any previous record for the
// same identity and platform.
func (s *Store) Save(sess *types.AuthSession) error {
	if sess == nil {
		return fmt.Errorf("session is nil")
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := s.path(sess.Identity, sess.Platform)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session %s: %w", path, err)
	}

	log.Printf("[SESSION] Saved %s session for %s", sess.Platform, sess.Identity)
	return nil
}

// path derives the deterministic file path for an identity+platform pair so
// repeated runs reuse the same record.
func (s *Store) path(identity string, platform types.Platform) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", SanitizeIdentity(identity), platform))
}

// SanitizeIdentity normalizes an identity for use in file names.
func SanitizeIdentity(identity string) string {
	return nonAlphanumeric.ReplaceAllString(identity, "_")
}
