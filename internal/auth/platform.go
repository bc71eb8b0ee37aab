// Package auth drives the login state machine for job platforms.
package auth

import "github.com/jonathan/auto-applier/internal/types"

// PlatformSpec describes where a platform's authenticated surface lives and
// how to recognize a signed-in session on it.
type PlatformSpec struct {
	Platform types.Platform

	// LandingURL is the authenticated landing surface probed for login state.
	LandingURL string
	// LoginURL is the credential entry page.
	LoginURL string

	// AuthenticatedSelectors are elements present only when signed in.
	AuthenticatedSelectors []string
	// AuthenticatedURLHints are URL fragments indicating a signed-in surface.
	AuthenticatedURLHints []string

	IdentityField string
	PasswordField string
	SubmitButton  string
}

// LinkedInSpec returns the LinkedIn login surface description.
func LinkedInSpec() PlatformSpec {
	return PlatformSpec{
		Platform:   types.PlatformLinkedIn,
		LandingURL: "https://www.linkedin.com/feed/",
		LoginURL:   "https://www.linkedin.com/login",
		AuthenticatedSelectors: []string{
			".global-nav__me",
			"[data-test-global-nav-me]",
			".nav-item__profile-member-photo",
			".global-nav__primary-item--profile",
		},
		AuthenticatedURLHints: []string{"/feed/", "/in/"},
		IdentityField:         "#username",
		PasswordField:         "#password",
		SubmitButton:          `button[type="submit"]`,
	}
}

// SpecFor returns the login surface description for a platform, or false if
// the platform has no automated login support yet.
func SpecFor(platform types.Platform) (PlatformSpec, bool) {
	switch platform {
	case types.PlatformLinkedIn:
		return LinkedInSpec(), true
	default:
		return PlatformSpec{}, false
	}
}
