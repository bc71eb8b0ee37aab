package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/auto-applier/internal/types"
)

// Page is one scoped browser tab. All operations run against the page's own
// chromedp context; individual operations are bounded by an internal timeout
// so a stuck selector cannot hang a batch.
type Page struct {
	ctx       context.Context
	cancel    context.CancelFunc
	opTimeout time.Duration

	closeOnce sync.Once
}

// Close releases the page. Safe to call more than once.
func (p *Page) Close() {
	p.closeOnce.Do(p.cancel)
}

// run executes chromedp actions with the per-operation timeout applied.
func (p *Page) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate loads a URL and waits for the document body to be ready.
func (p *Page) Navigate(url string) error {
	if err := p.run(p.opTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Location returns the page's current URL.
func (p *Page) Location() (string, error) {
	var url string
	if err := p.run(5*time.Second, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

// HasElement reports whether a selector currently matches. Probe errors
// read as "not present".
func (p *Page) HasElement(sel string) bool {
	var found bool
	script := fmt.Sprintf("document.querySelector(%q) !== null", sel)
	if err := p.run(3*time.Second, chromedp.Evaluate(script, &found)); err != nil {
		return false
	}
	return found
}

// WaitVisible blocks until the selector is visible or the timeout elapses.
func (p *Page) WaitVisible(sel string, timeout time.Duration) error {
	if err := p.run(timeout, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("element %s not visible: %w", sel, err)
	}
	return nil
}

// Fill replaces the value of a form field.
func (p *Page) Fill(sel, value string) error {
	if err := p.run(p.opTimeout,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.SetValue(sel, "", chromedp.ByQuery),
		chromedp.SendKeys(sel, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to fill %s: %w", sel, err)
	}
	return nil
}

// Value reads the current value of a form field.
func (p *Page) Value(sel string) (string, error) {
	var v string
	if err := p.run(5*time.Second, chromedp.Value(sel, &v, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read value of %s: %w", sel, err)
	}
	return v, nil
}

// Click activates a visible element.
func (p *Page) Click(sel string) error {
	if err := p.run(p.opTimeout, chromedp.Click(sel, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to click %s: %w", sel, err)
	}
	return nil
}

// HTML returns the full rendered document.
func (p *Page) HTML() (string, error) {
	var html string
	if err := p.run(p.opTimeout, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to extract HTML: %w", err)
	}
	return html, nil
}

// Cookies captures all cookies visible to the browser.
func (p *Page) Cookies() ([]types.Cookie, error) {
	var out []types.Cookie
	err := p.run(10*time.Second, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out = append(out, types.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
			})
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return out, nil
}

// SetCookies restores previously captured cookies into the browser.
func (p *Page) SetCookies(cookies []types.Cookie) error {
	err := p.run(10*time.Second, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			param := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithHTTPOnly(c.HTTPOnly).
				WithSecure(c.Secure)
			if c.Expires > 0 {
				exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				param = param.WithExpires(&exp)
			}
			if err := param.Do(ctx); err != nil {
				return fmt.Errorf("cookie %s: %w", c.Name, err)
			}
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}
