// Package browser drives the target page through Playwright. It is the
// script-injection collaborator of the system: it captures page state for
// instance identification, renders the credential selection control, and
// performs autofill field access inside the live page.
package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// DefaultTimeout bounds individual page operations, in milliseconds.
const DefaultTimeout = 10000.0

// Options configures a browser session.
type Options struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// Timeout sets the default timeout for page operations (milliseconds).
	Timeout float64
}

// Session owns one Playwright browser with a single page. The watch loop
// holds exactly one session for the lifetime of the page; teardown
// discards every pending timer and binding with it.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	log     *zap.Logger
}

// NewSession installs and starts Playwright, launches Chromium, and opens
// a fresh page.
func NewSession(opts Options, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	return &Session{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		log:     log,
	}, nil
}

// Navigate loads the given URL and waits for the DOM to be parsed.
func (s *Session) Navigate(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Close tears down the page, context, browser, and the Playwright driver.
func (s *Session) Close() error {
	_ = s.page.Close()
	_ = s.context.Close()
	_ = s.browser.Close()
	if err := s.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
