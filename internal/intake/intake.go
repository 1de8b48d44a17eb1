// Package intake validates and classifies incoming post URLs before capture.
package intake

import (
	"encoding/csv"
	"io"
	"net/url"
	"strings"

	"github.com/veedor/veedor/internal/models"
)

// platformDomains maps each supported platform to its host substring.
// Twitter is matched on x.com, its current domain.
var platformDomains = []struct {
	platform models.Platform
	domain   string
}{
	{models.PlatformInstagram, "instagram.com"},
	{models.PlatformFacebook, "facebook.com"},
	{models.PlatformTwitter, "x.com"},
	{models.PlatformTwitter, "twitter.com"},
	{models.PlatformTikTok, "tiktok.com"},
}

// ValidateURL reports whether s is an absolute http(s) URL with a host.
func ValidateURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DetectPlatform derives the platform from the URL's domain. Unmatched
// domains map to PlatformUnknown; capture still proceeds with generic
// locators.
func DetectPlatform(rawURL string) models.Platform {
	lower := strings.ToLower(rawURL)
	for _, pd := range platformDomains {
		if strings.Contains(lower, pd.domain) {
			return pd.platform
		}
	}
	return models.PlatformUnknown
}

// CleanURL trims whitespace and prefixes https:// when no scheme is present.
func CleanURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	return rawURL
}

// ParseURLFile reads a CSV stream and returns the valid URLs found in the
// first column. Invalid rows are skipped, not reported.
func ParseURLFile(r io.Reader) []string {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	var urls []string
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if len(record) == 0 {
			continue
		}
		candidate := strings.TrimSpace(record[0])
		if ValidateURL(candidate) {
			urls = append(urls, candidate)
		}
	}
	return urls
}
