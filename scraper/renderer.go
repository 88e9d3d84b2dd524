package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Renderer captures full-page screenshots of rendered product pages.
// Implementations must settle lazy-loaded content before capturing and return
// the full scrollable height, not just the viewport.
type Renderer interface {
	CaptureFullPage(ctx context.Context, url string) ([]byte, error)
}

// BrowserRenderer drives a headless Chrome instance through go-rod. The
// browser is launched once and shared across captures; each capture gets its
// own stealth page.
type BrowserRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher

	pageLoadTimeout time.Duration
	viewportWidth   int
	viewportHeight  int
}

// NewBrowserRenderer launches headless Chrome. Uses the system Chromium when
// running in Docker, auto-detects locally.
func NewBrowserRenderer(pageLoadTimeout time.Duration, viewportWidth, viewportHeight int) (*BrowserRenderer, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
		l = l.Bin("/usr/bin/chromium-browser")
		log.Printf("Using system Chromium in Docker environment")
	} else {
		log.Printf("Using auto-detected Chromium (local environment)")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %v", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %v", err)
	}
	log.Printf("Using browser at: %s", controlURL)

	return &BrowserRenderer{
		browser:         browser,
		launcher:        l,
		pageLoadTimeout: pageLoadTimeout,
		viewportWidth:   viewportWidth,
		viewportHeight:  viewportHeight,
	}, nil
}

// CaptureFullPage navigates to the URL, waits out lazy loading, grows the
// viewport to the full scroll height and captures a PNG of the whole page.
// A navigation failure or an exceeded page-load timeout returns an error;
// no retries are attempted.
func (br *BrowserRenderer) CaptureFullPage(ctx context.Context, url string) ([]byte, error) {
	page, err := stealth.Page(br.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(br.pageLoadTimeout)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             br.viewportWidth,
		Height:            br.viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %v", err)
	}

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load timed out for %s: %v", url, err)
	}

	// Let dynamic content render, then trigger lazy loading below the fold.
	time.Sleep(5 * time.Second)
	if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return nil, fmt.Errorf("failed to scroll page: %v", err)
	}
	time.Sleep(2 * time.Second)

	res, err := page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return nil, fmt.Errorf("failed to read scroll height: %v", err)
	}
	scrollHeight := res.Value.Int()
	if scrollHeight < br.viewportHeight {
		scrollHeight = br.viewportHeight
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             br.viewportWidth,
		Height:            scrollHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to resize viewport: %v", err)
	}
	time.Sleep(2 * time.Second)

	screenshot, err := page.Screenshot(true, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %v", err)
	}

	log.Printf("📸 Captured screenshot: %d bytes (%dx%d)", len(screenshot), br.viewportWidth, scrollHeight)
	return screenshot, nil
}

// HealthCheck verifies the browser connection is still alive.
func (br *BrowserRenderer) HealthCheck() error {
	if _, err := br.browser.Version(); err != nil {
		return fmt.Errorf("browser health check failed: %v", err)
	}
	return nil
}

// Close shuts the browser down.
func (br *BrowserRenderer) Close() {
	if br.browser != nil {
		if err := br.browser.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser: %v", err)
		}
	}
	if br.launcher != nil {
		br.launcher.Cleanup()
	}
}
