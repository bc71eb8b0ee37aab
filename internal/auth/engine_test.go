package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage scripts the probe outcome per call and records interactions.
type fakePage struct {
	// probeResults is consumed one entry per probe; when exhausted the
	// last entry repeats.
	probeResults []bool
	probeCalls   int

	url         string
	fieldValues map[string]string

	navigated []string
	filled    map[string]string
	clicked   []string

	navigateErr error
	fillErr     error

	cookies    []types.Cookie
	cookiesErr error
	setCookies [][]types.Cookie

	closed int
}

func newFakePage() *fakePage {
	return &fakePage{
		fieldValues: map[string]string{},
		filled:      map[string]string{},
	}
}

func (p *fakePage) Navigate(url string) error {
	p.navigated = append(p.navigated, url)
	if p.navigateErr != nil {
		return p.navigateErr
	}
	p.url = url
	return nil
}

func (p *fakePage) Location() (string, error) { return p.url, nil }

func (p *fakePage) HasElement(string) bool {
	i := p.probeCalls
	p.probeCalls++
	if len(p.probeResults) == 0 {
		return false
	}
	if i >= len(p.probeResults) {
		i = len(p.probeResults) - 1
	}
	return p.probeResults[i]
}

func (p *fakePage) Fill(sel, value string) error {
	if p.fillErr != nil {
		return p.fillErr
	}
	p.filled[sel] = value
	p.fieldValues[sel] = value
	return nil
}

func (p *fakePage) Value(sel string) (string, error) { return p.fieldValues[sel], nil }

func (p *fakePage) Click(sel string) error {
	p.clicked = append(p.clicked, sel)
	return nil
}

func (p *fakePage) Cookies() ([]types.Cookie, error) {
	if p.cookiesErr != nil {
		return nil, p.cookiesErr
	}
	return p.cookies, nil
}

func (p *fakePage) SetCookies(cookies []types.Cookie) error {
	p.setCookies = append(p.setCookies, cookies)
	return nil
}

func (p *fakePage) Close() { p.closed++ }

type fakeStore struct {
	loaded *types.AuthSession
	saved  []*types.AuthSession
}

func (s *fakeStore) Load(string, types.Platform) *types.AuthSession { return s.loaded }

func (s *fakeStore) Save(sess *types.AuthSession) error {
	s.saved = append(s.saved, sess)
	return nil
}

// spec with one auth selector so each probe is exactly one HasElement call.
func testSpec() PlatformSpec {
	return PlatformSpec{
		Platform:               types.PlatformLinkedIn,
		LandingURL:             "https://example.com/feed/x",
		LoginURL:               "https://example.com/login",
		AuthenticatedSelectors: []string{".me"},
		IdentityField:          "#username",
		PasswordField:          "#password",
		SubmitButton:           `button[type="submit"]`,
	}
}

func newTestEngine(store SessionStore, page Page, opts ...Option) *Engine {
	open := func(context.Context) (Page, error) { return page, nil }
	base := []Option{
		WithSleeper(func(context.Context, time.Duration) bool { return true }),
		WithSettleDelay(0),
	}
	return NewEngine(store, open, append(base, opts...)...)
}

func TestAlreadyAuthenticatedSkipsLoginAndSave(t *testing.T) {
	page := newFakePage()
	page.probeResults = []bool{true}
	store := &fakeStore{}

	ok, err := newTestEngine(store, page).EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, store.saved, "initial probe success must not persist a session")
	assert.Empty(t, page.clicked)
	assert.Equal(t, 1, page.closed)
}

func TestAutoLoginSuccessPersistsSession(t *testing.T) {
	page := newFakePage()
	// probe 1: initial check fails; probe 2: post-login check succeeds.
	page.probeResults = []bool{false, true}
	page.cookies = []types.Cookie{{Name: "li_at", Value: "tok"}}
	store := &fakeStore{}

	fixed := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	eng := newTestEngine(store, page, WithClock(func() time.Time { return fixed }))

	ok, err := eng.EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "secret", page.filled["#password"])
	assert.Contains(t, page.clicked, `button[type="submit"]`)

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	assert.Equal(t, types.PlatformLinkedIn, saved.Platform)
	assert.Equal(t, "user@example.com", saved.Identity)
	assert.Equal(t, fixed, saved.LastLogin)
	assert.True(t, saved.IsValid)
	require.Len(t, saved.Cookies, 1)
}

func TestAutoLoginFailureFallsBackToManual(t *testing.T) {
	page := newFakePage()
	// initial probe false, post-auto-login probe false, first manual poll true.
	page.probeResults = []bool{false, false, true}
	store := &fakeStore{}

	ok, err := newTestEngine(store, page).EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, store.saved, 1, "manual login success must persist a session")
}

func TestNoPasswordGoesStraightToManualWait(t *testing.T) {
	page := newFakePage()
	page.probeResults = []bool{false, true}
	store := &fakeStore{}

	ok, err := newTestEngine(store, page).EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, page.filled["#password"], "no credentials must ever be submitted without a password")
}

func TestManualWaitPrefillsBlankIdentityField(t *testing.T) {
	page := newFakePage()
	page.probeResults = []bool{false, true}
	store := &fakeStore{}

	_, err := newTestEngine(store, page).EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", page.filled["#username"])
}

func TestManualWaitTimesOutAfterBoundedAttempts(t *testing.T) {
	page := newFakePage()
	page.probeResults = []bool{false} // never authenticates
	store := &fakeStore{}

	pollSleeps := 0
	eng := newTestEngine(store, page,
		WithPolling(5*time.Second, 60),
		WithSleeper(func(_ context.Context, d time.Duration) bool {
			if d == 5*time.Second {
				pollSleeps++
			}
			return true
		}),
	)

	ok, err := eng.EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, store.saved, "timeout must not persist a session")
	assert.Equal(t, 60, pollSleeps, "one poll sleep per bounded attempt")
	assert.Equal(t, 1, page.closed)
}

func TestNavigationErrorDegradesToLoginFlow(t *testing.T) {
	page := newFakePage()
	page.navigateErr = errors.New("net::ERR_CONNECTION_RESET")
	store := &fakeStore{}

	// Every navigation fails, so the manual wait cannot even reach the
	// login page; the engine reports failure rather than an error.
	ok, err := newTestEngine(store, page).EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContextCancellationStopsManualWait(t *testing.T) {
	page := newFakePage()
	page.probeResults = []bool{false}
	store := &fakeStore{}

	eng := newTestEngine(store, page, WithSleeper(func(ctx context.Context, _ time.Duration) bool {
		return false // simulates cancellation during the poll sleep
	}))

	ok, err := eng.EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSavedSessionCookiesRestoredBeforeProbe(t *testing.T) {
	page := newFakePage()
	page.probeResults = []bool{true}
	store := &fakeStore{
		loaded: &types.AuthSession{
			Platform: types.PlatformLinkedIn,
			Identity: "user@example.com",
			Cookies:  []types.Cookie{{Name: "li_at", Value: "cached"}},
			IsValid:  true,
		},
	}

	ok, err := newTestEngine(store, page).EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, page.setCookies, 1)
	assert.Equal(t, "cached", page.setCookies[0][0].Value)
}

func TestOpenPageFailureSurfacesError(t *testing.T) {
	open := func(context.Context) (Page, error) { return nil, errors.New("browser gone") }
	eng := NewEngine(&fakeStore{}, open)

	ok, err := eng.EnsureAuthenticated(context.Background(), testSpec(), "user@example.com", "")
	assert.False(t, ok)
	assert.Error(t, err)
}
