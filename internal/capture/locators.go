package capture

import "github.com/veedor/veedor/internal/models"

// LocatorSet groups the structural selectors used to capture one platform's
// posts. Container and Dismiss are comma-joined fallback lists tried in
// order.
type LocatorSet struct {
	Container string
	Text      string
	Ready     string
	Dismiss   string
}

// platformLocators is maintained per platform as markup drifts; selectors
// favor stable attributes (roles, data-testids) over generated class names
// where the platform offers them.
var platformLocators = map[models.Platform]LocatorSet{
	models.PlatformInstagram: {
		Container: "article[role='presentation'], main article, article",
		Text:      "div._a9zs, span._ap3a, h1, div[class*='Caption']",
		Ready:     "article",
		Dismiss:   "[role='dialog'] [aria-label='Close'], [role='dialog'] [aria-label='Cerrar'], [role='dialog'] button:first-of-type",
	},
	models.PlatformFacebook: {
		Container: "div[data-pagelet='FeedUnit'], div.x1yztbdb, div[role='article']",
		Text:      "div[data-ad-preview='message'], div.xdj266r, div[dir='auto']",
		Ready:     "div[role='main']",
		Dismiss:   "div[role='dialog'] [aria-label='Close'], div[role='dialog'] [aria-label='Cerrar']",
	},
	models.PlatformTwitter: {
		Container: "article[data-testid='tweet']",
		Text:      "div[data-testid='tweetText']",
		Ready:     "article[data-testid='tweet']",
		Dismiss:   "[data-testid='xMigrationBottomBar'] button, [role='dialog'] button[aria-label='Close']",
	},
	models.PlatformTikTok: {
		Container: "div[class*='DivVideoContainer'], div[class*='video-card'], div[class*='tiktok-web-player']",
		Text:      "div[class*='DivDescription'], span[class*='SpanText'], h1",
		Ready:     "div[id='app']",
		Dismiss:   "button[class*='close'], div[class*='login'] button, [data-e2e='modal-close-inner-button']",
	},
}

// genericLocators is the fallback for unknown or unmapped platforms: broad
// containers, common text nodes, no dismiss targets.
var genericLocators = LocatorSet{
	Container: "main, article, body",
	Text:      "p, h1, h2, span",
	Ready:     "body",
	Dismiss:   "",
}

// LocatorsFor returns the locator set for a platform, falling back to the
// generic set.
func LocatorsFor(p models.Platform) LocatorSet {
	if loc, ok := platformLocators[p]; ok {
		return loc
	}
	return genericLocators
}
