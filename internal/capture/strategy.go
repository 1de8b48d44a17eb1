package capture

import (
	"fmt"
	"strings"
	"time"

	"github.com/veedor/veedor/internal/models"
)

// PageDriver is the capability surface a capture strategy needs from a live
// page. The rod-backed implementation lives in browser.go; tests substitute
// fakes.
type PageDriver interface {
	// Navigate loads the URL and waits for the page to load and settle,
	// bounded by timeout. A timeout is an error: the caller converts it
	// into an error record, capture is at-most-once per URL.
	Navigate(url string, timeout time.Duration) error
	// DismissFirstVisible clicks the first visible match among the
	// comma-joined selectors and reports whether anything was clicked.
	// All failures are swallowed: popups are obstacles, not requirements.
	DismissFirstVisible(selectors string) bool
	// WaitReady blocks until the selector matches or timeout elapses.
	// Best effort only; partial content is still worth capturing.
	WaitReady(selector string, timeout time.Duration)
	// ScrollBy scrolls the viewport vertically to trigger lazy loading.
	ScrollBy(pixels int)
	// Sleep pauses for a fixed settle delay.
	Sleep(d time.Duration)
	// ElementTexts returns the trimmed, non-empty visible text of every
	// match, in DOM order. Per-element failures are skipped.
	ElementTexts(selector string) []string
	// ScreenshotElement screenshots the first visible match among the
	// comma-joined selectors; ok is false when none is visible.
	ScreenshotElement(selectors string) (data []byte, ok bool)
	// ScreenshotViewport screenshots the current viewport.
	ScreenshotViewport() ([]byte, error)
}

// Strategy captures one post: navigate, clear interstitials, wait, extract
// text, screenshot. Variants tune ordering and timing per platform.
type Strategy interface {
	Capture(p PageDriver, url string, loc LocatorSet) (screenshot []byte, text string, err error)
}

// Timing bounds the suspension points of a capture. All waits are bounded,
// never indefinite.
type Timing struct {
	Capture time.Duration
	Ready   time.Duration
}

// DefaultTiming matches the production defaults: 30s navigation budget,
// 15s ready wait.
func DefaultTiming() Timing {
	return Timing{Capture: 30 * time.Second, Ready: 15 * time.Second}
}

func (t Timing) withDefaults() Timing {
	if t.Capture <= 0 {
		t.Capture = 30 * time.Second
	}
	if t.Ready <= 0 {
		t.Ready = 15 * time.Second
	}
	return t
}

// StrategyFor returns the platform's capture strategy. Platforms without a
// dedicated variant use the base algorithm with their own locators.
func StrategyFor(p models.Platform, timing Timing) Strategy {
	timing = timing.withDefaults()
	switch p {
	case models.PlatformInstagram:
		return &instagramStrategy{timing: timing}
	case models.PlatformTikTok:
		return &tiktokStrategy{timing: timing}
	default:
		return &baseStrategy{timing: timing}
	}
}

type baseStrategy struct {
	timing Timing
}

func (s *baseStrategy) Capture(p PageDriver, url string, loc LocatorSet) ([]byte, string, error) {
	if err := p.Navigate(url, s.timing.Capture); err != nil {
		return nil, "", fmt.Errorf("navigate to %s: %w", url, err)
	}

	dismissPopups(p, loc)

	p.WaitReady(loc.Ready, s.timing.Ready)

	// Nudge lazy-loaded content into view before reading the DOM.
	p.ScrollBy(300)
	p.Sleep(1500 * time.Millisecond)

	text := extractText(p, loc)
	shot, err := takeScreenshot(p, loc)
	if err != nil {
		return nil, "", err
	}
	return shot, text, nil
}

// instagramStrategy dismisses the login overlay twice, 2s apart: it can
// reappear after the first dismissal.
type instagramStrategy struct {
	timing Timing
}

func (s *instagramStrategy) Capture(p PageDriver, url string, loc LocatorSet) ([]byte, string, error) {
	if err := p.Navigate(url, s.timing.Capture); err != nil {
		return nil, "", fmt.Errorf("navigate to %s: %w", url, err)
	}

	dismissPopups(p, loc)
	p.Sleep(2 * time.Second)
	dismissPopups(p, loc)

	p.WaitReady(loc.Ready, s.timing.Ready)

	p.ScrollBy(200)
	p.Sleep(time.Second)

	text := extractText(p, loc)
	shot, err := takeScreenshot(p, loc)
	if err != nil {
		return nil, "", err
	}
	return shot, text, nil
}

// tiktokStrategy allows 3s of extra settle for the heavy client-side player
// before waiting on the ready marker.
type tiktokStrategy struct {
	timing Timing
}

func (s *tiktokStrategy) Capture(p PageDriver, url string, loc LocatorSet) ([]byte, string, error) {
	if err := p.Navigate(url, s.timing.Capture); err != nil {
		return nil, "", fmt.Errorf("navigate to %s: %w", url, err)
	}

	dismissPopups(p, loc)
	p.Sleep(3 * time.Second)
	dismissPopups(p, loc)

	p.WaitReady(loc.Ready, s.timing.Ready)

	text := extractText(p, loc)
	shot, err := takeScreenshot(p, loc)
	if err != nil {
		return nil, "", err
	}
	return shot, text, nil
}

func dismissPopups(p PageDriver, loc LocatorSet) {
	if loc.Dismiss == "" {
		return
	}
	if p.DismissFirstVisible(loc.Dismiss) {
		p.Sleep(time.Second)
	}
}

func extractText(p PageDriver, loc LocatorSet) string {
	return strings.Join(p.ElementTexts(loc.Text), "\n")
}

// takeScreenshot tries the container selectors first and falls back to the
// viewport, so a loaded page always yields non-empty bytes.
func takeScreenshot(p PageDriver, loc LocatorSet) ([]byte, error) {
	if shot, ok := p.ScreenshotElement(loc.Container); ok && len(shot) > 0 {
		return shot, nil
	}
	shot, err := p.ScreenshotViewport()
	if err != nil {
		return nil, fmt.Errorf("viewport screenshot: %w", err)
	}
	return shot, nil
}
