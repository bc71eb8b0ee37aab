// Package browser manages the shared headless-browser session for a run and
// the scoped pages opened within it.
package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures a browser session.
type Options struct {
	Headless bool
	// UserAgent overrides the default desktop Chrome user agent.
	UserAgent string
	Verbose   bool
}

// Session is one browser process shared across all page scopes of a run.
// Requires Chrome/Chromium to be installed on the system.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
	verbose bool
}

// NewSession launches the browser. The session lives until Close; the given
// context bounds the whole run.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent(ua),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process up front so the first page open doesn't
	// conflate launch failures with navigation failures.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Session started (headless=%v)", opts.Headless)
	}

	return &Session{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		verbose: opts.Verbose,
	}, nil
}

// NewPage opens a page scoped to one unit of work. The caller must Close it
// on every exit path; leaked pages exhaust browser resources over a long
// batch. Cancelling ctx tears the page down early.
func (s *Session) NewPage(ctx context.Context) (*Page, error) {
	if s == nil || s.ctx == nil {
		return nil, fmt.Errorf("browser session not initialized")
	}

	pageCtx, cancel := chromedp.NewContext(s.ctx)

	// Tie the page lifetime to the caller's context.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-pageCtx.Done():
		}
	}()

	return &Page{ctx: pageCtx, cancel: cancel, opTimeout: 30 * time.Second}, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
	if s.verbose {
		log.Printf("[BROWSER] Session closed")
	}
}
