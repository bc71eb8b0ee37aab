package auth

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
)

// State is one node of the login state machine.
type State string

const (
	// StateCheckingAuth probes the landing surface for signed-in markers
	StateCheckingAuth State = "checking_auth"
	// StateNeedsLogin means the probe came back negative
	StateNeedsLogin State = "needs_login"
	// StateAutoLoginAttempt submits the supplied credentials
	StateAutoLoginAttempt State = "auto_login_attempt"
	// StateNeedsManualLogin means automatic login failed or was unavailable
	StateNeedsManualLogin State = "needs_manual_login"
	// StateManualLoginWait polls for a supervised interactive login
	StateManualLoginWait State = "manual_login_wait"
	// StateAuthenticated is the success terminal
	StateAuthenticated State = "authenticated"
	// StateTimedOut is the failure terminal
	StateTimedOut State = "timed_out"
)

// Page is the subset of browser page operations the engine needs. Probe and
// navigation failures never propagate past the engine; they degrade to the
// next state in the machine.
type Page interface {
	Navigate(url string) error
	Location() (string, error)
	HasElement(sel string) bool
	Fill(sel, value string) error
	Value(sel string) (string, error)
	Click(sel string) error
	Cookies() ([]types.Cookie, error)
	SetCookies(cookies []types.Cookie) error
	Close()
}

// OpenPageFunc opens a scoped page within the run's browser session.
type OpenPageFunc func(ctx context.Context) (Page, error)

// SessionStore persists login sessions between runs.
type SessionStore interface {
	Load(identity string, platform types.Platform) *types.AuthSession
	Save(sess *types.AuthSession) error
}

// Engine runs the login state machine for one platform at a time.
type Engine struct {
	store    SessionStore
	openPage OpenPageFunc

	pollInterval    time.Duration
	maxPollAttempts int
	settleDelay     time.Duration

	sleep   func(ctx context.Context, d time.Duration) bool
	now     func() time.Time
	verbose bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolling overrides the manual-login poll interval and attempt bound.
func WithPolling(interval time.Duration, attempts int) Option {
	return func(e *Engine) {
		e.pollInterval = interval
		e.maxPollAttempts = attempts
	}
}

// WithSettleDelay overrides the post-navigation settle wait before probing.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) { e.settleDelay = d }
}

// WithSleeper injects the sleep function, letting tests run without waiting.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) bool) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithClock injects the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithVerbose enables progress logging.
func WithVerbose(v bool) Option {
	return func(e *Engine) { e.verbose = v }
}

// NewEngine creates an Engine. Defaults: 5 second poll interval, 60 attempts
// (5 minutes total), 3 second settle delay.
func NewEngine(store SessionStore, openPage OpenPageFunc, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		openPage:        openPage,
		pollInterval:    5 * time.Second,
		maxPollAttempts: 60,
		settleDelay:     3 * time.Second,
		sleep:           sleepCtx,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnsureAuthenticated guarantees a signed-in session for the identity on the
// platform described by spec. It returns true once authenticated, false when
// the manual-login window times out. The error is non-nil only when no page
// could be opened at all; everything else degrades inside the machine.
func (e *Engine) EnsureAuthenticated(ctx context.Context, spec PlatformSpec, identity, password string) (bool, error) {
	page, err := e.openPage(ctx)
	if err != nil {
		return false, err
	}
	defer page.Close()

	// Restore a saved session first so the probe can succeed without a
	// fresh login. Best effort: a restore failure just means logging in.
	if saved := e.store.Load(identity, spec.Platform); saved != nil {
		if err := page.SetCookies(saved.Cookies); err != nil && e.verbose {
			log.Printf("[AUTH] Could not restore saved cookies: %v", err)
		}
	}

	state := StateCheckingAuth
	viaLogin := false

	for {
		if ctx.Err() != nil {
			return false, nil
		}

		switch state {
		case StateCheckingAuth:
			if e.verbose {
				log.Printf("[AUTH] Checking %s login state for %s", spec.Platform, identity)
			}
			if err := page.Navigate(spec.LandingURL); err != nil {
				state = StateNeedsLogin
				continue
			}
			e.sleep(ctx, e.settleDelay)
			if e.probe(page, spec) {
				state = StateAuthenticated
			} else {
				state = StateNeedsLogin
			}

		case StateNeedsLogin:
			if password != "" {
				state = StateAutoLoginAttempt
			} else {
				state = StateManualLoginWait
			}

		case StateAutoLoginAttempt:
			if e.autoLogin(ctx, page, spec, identity, password) {
				viaLogin = true
				state = StateAuthenticated
			} else {
				state = StateNeedsManualLogin
			}

		case StateNeedsManualLogin:
			if e.verbose {
				log.Printf("[AUTH] Automatic login failed, falling back to manual login")
			}
			state = StateManualLoginWait

		case StateManualLoginWait:
			if e.manualLoginWait(ctx, page, spec, identity) {
				viaLogin = true
				state = StateAuthenticated
			} else {
				state = StateTimedOut
			}

		case StateAuthenticated:
			// Fresh cookies were only issued on a login path; the initial
			// probe succeeding means the persisted session is still good.
			if viaLogin {
				e.persistSession(page, spec, identity)
			}
			if e.verbose {
				log.Printf("[AUTH] Authenticated on %s as %s", spec.Platform, identity)
			}
			return true, nil

		case StateTimedOut:
			log.Printf("[AUTH] Login wait timed out for %s on %s", identity, spec.Platform)
			return false, nil
		}
	}
}

// probe checks the signed-in markers: known elements first, then URL shape.
// Any probe error reads as "not authenticated".
func (e *Engine) probe(page Page, spec PlatformSpec) bool {
	for _, sel := range spec.AuthenticatedSelectors {
		if page.HasElement(sel) {
			return true
		}
	}

	url, err := page.Location()
	if err != nil {
		return false
	}
	for _, hint := range spec.AuthenticatedURLHints {
		if strings.Contains(url, hint) {
			return true
		}
	}
	return false
}

// autoLogin submits the supplied credentials. Best effort: any failure or a
// negative post-login probe falls back to the manual flow.
func (e *Engine) autoLogin(ctx context.Context, page Page, spec PlatformSpec, identity, password string) bool {
	if e.verbose {
		log.Printf("[AUTH] Attempting automatic login for %s", identity)
	}

	if err := page.Navigate(spec.LoginURL); err != nil {
		return false
	}
	if err := page.Fill(spec.IdentityField, identity); err != nil {
		return false
	}
	if err := page.Fill(spec.PasswordField, password); err != nil {
		return false
	}
	if err := page.Click(spec.SubmitButton); err != nil {
		return false
	}

	// Wait for the post-submit navigation to settle, then re-probe.
	e.sleep(ctx, e.settleDelay)
	return e.probe(page, spec)
}

// manualLoginWait parks on the login page and polls the signed-in probe at a
// fixed interval until it succeeds or the attempt bound is exhausted. The
// operator completes the login (captcha, 2FA) in the visible browser.
func (e *Engine) manualLoginWait(ctx context.Context, page Page, spec PlatformSpec, identity string) bool {
	log.Printf("[AUTH] Waiting for manual login on %s (complete it in the browser window)", spec.Platform)

	if url, err := page.Location(); err != nil || !strings.Contains(url, "login") {
		if err := page.Navigate(spec.LoginURL); err != nil {
			return false
		}
	}

	// Pre-fill the identity field if it is blank. Failures here are ignored.
	if v, err := page.Value(spec.IdentityField); err == nil && v == "" {
		_ = page.Fill(spec.IdentityField, identity)
	}

	for attempt := 0; attempt < e.maxPollAttempts; attempt++ {
		if e.probe(page, spec) {
			return true
		}
		if !e.sleep(ctx, e.pollInterval) {
			return false
		}
	}
	return false
}

// persistSession captures cookies into the session store. A capture or save
// failure costs the cached session, not the run.
func (e *Engine) persistSession(page Page, spec PlatformSpec, identity string) {
	cookies, err := page.Cookies()
	if err != nil {
		log.Printf("[AUTH] Could not capture cookies: %v", err)
		return
	}

	sess := &types.AuthSession{
		Platform:  spec.Platform,
		Identity:  identity,
		Cookies:   cookies,
		LastLogin: e.now(),
		IsValid:   true,
	}
	if err := e.store.Save(sess); err != nil {
		log.Printf("[AUTH] Could not save session: %v", err)
	}
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
