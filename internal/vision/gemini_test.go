package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiAnalyze(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-2.0-flash:generateContent") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Fatalf("missing api key header, got %q", r.Header.Get("X-Goog-Api-Key"))
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 2 {
			t.Fatalf("expected one content with image and text parts, got %+v", req.Contents)
		}
		img := req.Contents[0].Parts[0].InlineData
		if img == nil || img.MimeType != "image/png" || img.Data == "" {
			t.Fatalf("expected inline png data, got %+v", img)
		}
		if req.Contents[0].Parts[1].Text == "" {
			t.Fatal("expected prompt text part")
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"identidad_"},{"text":"marca\": true}"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "test-key", APIURL: server.URL})
	got, err := client.Analyze(context.Background(), []byte{0x89, 0x50}, "analiza esto")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got != `{"identidad_marca": true}` {
		t.Fatalf("parts were not concatenated, got %q", got)
	}
}

func TestGeminiAnalyzeNoCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "test-key", APIURL: server.URL})
	if _, err := client.Analyze(context.Background(), nil, "x"); err == nil {
		t.Fatal("expected error when the response has no candidates")
	}
}

func TestGeminiAnalyzeServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "test-key", APIURL: server.URL})
	_, err := client.Analyze(context.Background(), nil, "x")
	if err == nil {
		t.Fatal("expected error on non-2xx status")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error should carry the response body, got %v", err)
	}
}

func TestGeminiAnalyzeMissingKey(t *testing.T) {
	t.Parallel()

	client := NewGeminiClient(GeminiConfig{})
	if _, err := client.Analyze(context.Background(), nil, "x"); err == nil {
		t.Fatal("expected error without an api key")
	}
}
