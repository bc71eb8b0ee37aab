package types

import "time"

// Cookie is one browser cookie captured from an authenticated page.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"` // seconds since epoch, 0 for session cookies
	HTTPOnly bool    `json:"http_only,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
}

// AuthSession is one persisted login for an identity on a platform.
type AuthSession struct {
	Platform  Platform  `json:"platform"`
	Identity  string    `json:"identity"`
	Cookies   []Cookie  `json:"cookies"`
	LastLogin time.Time `json:"last_login"`
	IsValid   bool      `json:"is_valid"`
}

// Age returns how long ago the session was established.
func (s *AuthSession) Age(now time.Time) time.Duration {
	return now.Sub(s.LastLogin)
}
