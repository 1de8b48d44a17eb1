package capture

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const (
	viewportWidth  = 1280
	viewportHeight = 900
	pageLocale     = "es-CO"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"

	// settle window after load; approximates Playwright's networkidle
	navStableDur = 500 * time.Millisecond
)

// Session owns one headless Chromium process for the duration of a batch.
// Browsing contexts are cheap and created fresh per URL; the process is not.
type Session struct {
	browser *rod.Browser
}

// NewSession returns an unstarted session. Call Start before use.
func NewSession() *Session {
	return &Session{}
}

// Start launches headless Chromium via Rod's launcher. Returns an error when
// Chrome/Chromium cannot be started; nothing in the batch can proceed then.
func (s *Session) Start() error {
	u, err := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return fmt.Errorf("launch headless browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to headless browser: %w", err)
	}
	s.browser = browser
	return nil
}

// NewIsolatedPage opens a stealth page inside a fresh incognito context with
// a fixed viewport, locale, and desktop user agent. Contexts are never
// reused across URLs: stale login banners and cached redirects from one
// capture must not leak into the next. The returned cleanup closes the page
// and is safe to call once capture is done, success or not.
func (s *Session) NewIsolatedPage() (PageDriver, func(), error) {
	incognito, err := s.browser.Incognito()
	if err != nil {
		return nil, nil, fmt.Errorf("create incognito context: %w", err)
	}
	page, err := stealth.Page(incognito)
	if err != nil {
		return nil, nil, fmt.Errorf("create page: %w", err)
	}
	cleanup := func() { _ = page.Close() }

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: pageLocale,
	}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("set user agent: %w", err)
	}

	return &rodPage{page: page}, cleanup, nil
}

// Close shuts down the browser process. Safe to call after a partial start;
// teardown errors are swallowed so they never mask the batch's result.
func (s *Session) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
	}
}

// rodPage adapts a rod page to the PageDriver surface strategies consume.
type rodPage struct {
	page *rod.Page
}

func (rp *rodPage) Navigate(url string, timeout time.Duration) error {
	p := rp.page.Timeout(timeout)
	if err := p.Navigate(url); err != nil {
		return err
	}
	if err := p.WaitLoad(); err != nil {
		return err
	}
	// WaitStable waits until the DOM stops changing for the given window.
	// Best effort: a busy page past the budget is still capturable.
	_ = p.WaitStable(navStableDur)
	return nil
}

func (rp *rodPage) DismissFirstVisible(selectors string) bool {
	for _, sel := range strings.Split(selectors, ",") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		has, el, err := rp.page.Has(sel)
		if err != nil || !has {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		return true
	}
	return false
}

func (rp *rodPage) WaitReady(selector string, timeout time.Duration) {
	_, _ = rp.page.Timeout(timeout).Element(selector)
}

func (rp *rodPage) ScrollBy(pixels int) {
	_, _ = rp.page.Eval(`(y) => window.scrollBy(0, y)`, pixels)
}

func (rp *rodPage) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (rp *rodPage) ElementTexts(selector string) []string {
	els, err := rp.page.Elements(selector)
	if err != nil {
		return nil
	}
	var texts []string
	for _, el := range els {
		t, err := el.Text()
		if err != nil {
			continue
		}
		t = strings.TrimSpace(t)
		if t != "" {
			texts = append(texts, t)
		}
	}
	return texts
}

func (rp *rodPage) ScreenshotElement(selectors string) ([]byte, bool) {
	for _, sel := range strings.Split(selectors, ",") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		has, el, err := rp.page.Has(sel)
		if err != nil || !has {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
		if err != nil || len(data) == 0 {
			continue
		}
		return data, true
	}
	return nil, false
}

func (rp *rodPage) ScreenshotViewport() ([]byte, error) {
	return rp.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
