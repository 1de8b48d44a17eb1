package intake

import (
	"reflect"
	"strings"
	"testing"

	"github.com/veedor/veedor/internal/models"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"https://www.instagram.com/p/ABC123/",
		"http://x.com/alcaldia/status/1",
		"  https://facebook.com/post  ",
	}
	for _, u := range valid {
		if !ValidateURL(u) {
			t.Errorf("expected %q to be valid", u)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.com/file",
		"https://",
		"instagram.com/p/ABC123/",
	}
	for _, u := range invalid {
		if ValidateURL(u) {
			t.Errorf("expected %q to be invalid", u)
		}
	}
}

func TestDetectPlatform(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want models.Platform
	}{
		{"https://www.instagram.com/p/ABC/", models.PlatformInstagram},
		{"https://www.facebook.com/alcaldia/posts/1", models.PlatformFacebook},
		{"https://x.com/alcaldia/status/1", models.PlatformTwitter},
		{"https://twitter.com/alcaldia/status/1", models.PlatformTwitter},
		{"https://www.tiktok.com/@alcaldia/video/1", models.PlatformTikTok},
		{"https://INSTAGRAM.com/p/ABC/", models.PlatformInstagram},
		{"https://example.com/post", models.PlatformUnknown},
	}
	for _, c := range cases {
		if got := DetectPlatform(c.url); got != c.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestCleanURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"instagram.com/p/ABC/", "https://instagram.com/p/ABC/"},
		{"  x.com/alcaldia/status/1  ", "https://x.com/alcaldia/status/1"},
		{"https://tiktok.com/@a/video/1", "https://tiktok.com/@a/video/1"},
		{"http://facebook.com/post", "http://facebook.com/post"},
	}
	for _, c := range cases {
		if got := CleanURL(c.in); got != c.want {
			t.Errorf("CleanURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseURLFile(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"https://www.instagram.com/p/ABC/,extra column",
		"not a url",
		"https://x.com/alcaldia/status/1",
		"",
		"https://www.tiktok.com/@alcaldia/video/1",
	}, "\n")

	got := ParseURLFile(strings.NewReader(input))
	want := []string{
		"https://www.instagram.com/p/ABC/",
		"https://x.com/alcaldia/status/1",
		"https://www.tiktok.com/@alcaldia/video/1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseURLFile = %v, want %v", got, want)
	}
}
