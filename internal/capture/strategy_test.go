package capture

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/veedor/veedor/internal/models"
)

// fakePage records the operations a strategy performs, in order.
type fakePage struct {
	ops []string

	navigateErr      error
	dismissResults   []bool
	dismissCalls     int
	texts            []string
	elementShot      []byte
	viewportShot     []byte
	viewportShotErr  error
	elementShotTaken bool
}

func (f *fakePage) Navigate(url string, timeout time.Duration) error {
	f.ops = append(f.ops, "navigate:"+url)
	return f.navigateErr
}

func (f *fakePage) DismissFirstVisible(selectors string) bool {
	f.ops = append(f.ops, "dismiss")
	f.dismissCalls++
	if len(f.dismissResults) >= f.dismissCalls {
		return f.dismissResults[f.dismissCalls-1]
	}
	return false
}

func (f *fakePage) WaitReady(selector string, timeout time.Duration) {
	f.ops = append(f.ops, "ready:"+selector)
}

func (f *fakePage) ScrollBy(pixels int) {
	f.ops = append(f.ops, fmt.Sprintf("scroll:%d", pixels))
}

func (f *fakePage) Sleep(d time.Duration) {
	f.ops = append(f.ops, "sleep:"+d.String())
}

func (f *fakePage) ElementTexts(selector string) []string {
	f.ops = append(f.ops, "texts")
	return f.texts
}

func (f *fakePage) ScreenshotElement(selectors string) ([]byte, bool) {
	f.ops = append(f.ops, "shot-element")
	f.elementShotTaken = true
	if f.elementShot == nil {
		return nil, false
	}
	return f.elementShot, true
}

func (f *fakePage) ScreenshotViewport() ([]byte, error) {
	f.ops = append(f.ops, "shot-viewport")
	return f.viewportShot, f.viewportShotErr
}

func TestBaseStrategyOrder(t *testing.T) {
	page := &fakePage{
		texts:       []string{"primera linea", "segunda linea"},
		elementShot: []byte{0x89, 'P', 'N', 'G'},
	}
	strategy := StrategyFor(models.PlatformFacebook, DefaultTiming())

	shot, text, err := strategy.Capture(page, "https://facebook.com/post/1", LocatorsFor(models.PlatformFacebook))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(shot) == 0 {
		t.Fatal("expected screenshot bytes")
	}
	if text != "primera linea\nsegunda linea" {
		t.Fatalf("unexpected text %q", text)
	}

	want := []string{
		"navigate:https://facebook.com/post/1",
		"dismiss",
		"ready:div[role='main']",
		"scroll:300",
		"sleep:1.5s",
		"texts",
		"shot-element",
	}
	if got := strings.Join(page.ops, ","); got != strings.Join(want, ",") {
		t.Fatalf("unexpected op order:\n got %v\nwant %v", page.ops, want)
	}
}

func TestInstagramStrategyDismissesTwice(t *testing.T) {
	page := &fakePage{elementShot: []byte{1}}
	strategy := StrategyFor(models.PlatformInstagram, DefaultTiming())

	if _, _, err := strategy.Capture(page, "https://instagram.com/p/abc", LocatorsFor(models.PlatformInstagram)); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if page.dismissCalls != 2 {
		t.Fatalf("expected 2 dismiss passes, got %d", page.dismissCalls)
	}
	// the dismiss passes are separated by the 2s overlay-reappearance window
	if got := strings.Join(page.ops, ","); !strings.Contains(got, "dismiss,sleep:2s,dismiss") {
		t.Fatalf("dismiss passes not separated by settle: %v", page.ops)
	}
}

func TestTikTokStrategySettlesBeforeReady(t *testing.T) {
	page := &fakePage{elementShot: []byte{1}}
	strategy := StrategyFor(models.PlatformTikTok, DefaultTiming())

	if _, _, err := strategy.Capture(page, "https://tiktok.com/@u/video/1", LocatorsFor(models.PlatformTikTok)); err != nil {
		t.Fatalf("capture: %v", err)
	}
	got := strings.Join(page.ops, ",")
	if !strings.Contains(got, "sleep:3s") {
		t.Fatalf("expected 3s settle: %v", page.ops)
	}
	if strings.Index(got, "sleep:3s") > strings.Index(got, "ready:") {
		t.Fatalf("settle must precede ready wait: %v", page.ops)
	}
	if strings.Contains(got, "scroll") {
		t.Fatalf("tiktok variant does not scroll: %v", page.ops)
	}
}

func TestScreenshotFallsBackToViewport(t *testing.T) {
	page := &fakePage{viewportShot: []byte{0xCA, 0xFE}}
	strategy := StrategyFor(models.PlatformTwitter, DefaultTiming())

	shot, _, err := strategy.Capture(page, "https://x.com/u/status/1", LocatorsFor(models.PlatformTwitter))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if !page.elementShotTaken {
		t.Fatal("element screenshot should be attempted first")
	}
	if len(shot) == 0 {
		t.Fatal("viewport fallback must yield non-empty bytes")
	}
}

func TestNavigateFailurePropagates(t *testing.T) {
	page := &fakePage{navigateErr: errors.New("net::ERR_TIMED_OUT")}
	strategy := StrategyFor(models.PlatformInstagram, DefaultTiming())

	_, _, err := strategy.Capture(page, "https://instagram.com/p/abc", LocatorsFor(models.PlatformInstagram))
	if err == nil {
		t.Fatal("expected navigation error")
	}
	if !strings.Contains(err.Error(), "ERR_TIMED_OUT") {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestDismissSkippedWithoutTargets(t *testing.T) {
	page := &fakePage{elementShot: []byte{1}}
	strategy := StrategyFor(models.PlatformUnknown, DefaultTiming())

	if _, _, err := strategy.Capture(page, "https://example.com/post", LocatorsFor(models.PlatformUnknown)); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if page.dismissCalls != 0 {
		t.Fatalf("generic locators have no dismiss targets, got %d calls", page.dismissCalls)
	}
}

func TestDismissSettleAfterClick(t *testing.T) {
	page := &fakePage{elementShot: []byte{1}, dismissResults: []bool{true}}
	strategy := StrategyFor(models.PlatformFacebook, DefaultTiming())

	if _, _, err := strategy.Capture(page, "https://facebook.com/post/1", LocatorsFor(models.PlatformFacebook)); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if got := strings.Join(page.ops, ","); !strings.Contains(got, "dismiss,sleep:1s") {
		t.Fatalf("expected settle after a successful dismiss: %v", page.ops)
	}
}

func TestLocatorsFallback(t *testing.T) {
	loc := LocatorsFor(models.PlatformUnknown)
	if loc.Container != genericLocators.Container || loc.Dismiss != "" {
		t.Fatalf("unexpected fallback locators: %+v", loc)
	}
	if LocatorsFor(models.PlatformInstagram).Ready != "article" {
		t.Fatal("instagram locators not found")
	}
}
