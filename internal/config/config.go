package config

import (
	"strings"
	"time"

	"github.com/veedor/veedor/internal/env"
	"github.com/veedor/veedor/internal/models"
)

// Config stores environment configuration for Veedor.
type Config struct {
	Port           string
	DataDir        string
	ScreenshotsDir string
	DatabasePath   string
	CaptureTimeout time.Duration
	ReadyTimeout   time.Duration
	MaxBatchURLs   int
	AIBackend      string
	GeminiAPIKey   string
	GeminiModel    string
	OllamaURL      string
	OllamaModel    string
	Hashtags       []string
	BrandNotes     string
}

// LoadConfig loads the Veedor configuration from environment variables.
func LoadConfig() Config {
	dataDir := env.Get("VEEDOR_DATA_DIR", "data")
	return Config{
		Port:           env.Get("PORT", "18080"),
		DataDir:        dataDir,
		ScreenshotsDir: env.Get("VEEDOR_SCREENSHOTS_DIR", dataDir+"/screenshots"),
		DatabasePath:   env.Get("VEEDOR_DATABASE_PATH", dataDir+"/cumplimiento.db"),
		CaptureTimeout: parseDuration(env.Get("VEEDOR_CAPTURE_TIMEOUT", "30s"), 30*time.Second),
		ReadyTimeout:   parseDuration(env.Get("VEEDOR_READY_TIMEOUT", "15s"), 15*time.Second),
		MaxBatchURLs:   env.GetInt("VEEDOR_MAX_BATCH_URLS", 30),
		AIBackend:      env.Get("VEEDOR_AI_BACKEND", "gemini"),
		GeminiAPIKey:   env.Get("GEMINI_API_KEY", ""),
		GeminiModel:    env.Get("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaURL:      env.Get("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:    env.Get("OLLAMA_MODEL", "llama3.2-vision"),
		Hashtags:       parseList(env.Get("VEEDOR_REQUIRED_HASHTAGS", "")),
		BrandNotes:     env.Get("VEEDOR_BRAND_NOTES", ""),
	}
}

// ComplianceDefaults builds the per-batch compliance configuration from the
// service config, falling back to the institutional defaults for anything
// not set in the environment.
func (c Config) ComplianceDefaults() models.ComplianceConfig {
	cfg := models.DefaultComplianceConfig()
	if len(c.Hashtags) > 0 {
		cfg.RequiredHashtags = c.Hashtags
	}
	if c.BrandNotes != "" {
		cfg.BrandGuidelinesNotes = c.BrandNotes
	}
	if c.AIBackend != "" {
		cfg.AIBackend = models.AIBackend(c.AIBackend)
	}
	cfg.GeminiModel = c.GeminiModel
	cfg.OllamaURL = c.OllamaURL
	cfg.OllamaModel = c.OllamaModel
	return cfg
}

func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
