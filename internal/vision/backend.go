// Package vision provides clients for vision-capable language models: a
// hosted Gemini backend and a local Ollama backend, behind one interface.
package vision

import (
	"context"
	"errors"
	"fmt"

	"github.com/veedor/veedor/internal/models"
)

// Backend analyzes an image with a text prompt and returns the model's raw
// text response. Implementations must not retry: callers decide what a
// failed call means for the post being analyzed.
type Backend interface {
	Analyze(ctx context.Context, image []byte, prompt string) (string, error)
}

// ErrMissingAPIKey is returned when the gemini backend is selected without a
// credential. It fails analysis initialization before any post is processed.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is required for the gemini backend")

// New builds the backend selected by the compliance configuration. The API
// key is supplied out-of-band (environment), never through the config value.
func New(cfg models.ComplianceConfig, geminiAPIKey string) (Backend, error) {
	switch cfg.AIBackend {
	case models.BackendOllama:
		return NewOllamaClient(OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
		}), nil
	case models.BackendGemini, "":
		if geminiAPIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewGeminiClient(GeminiConfig{
			APIKey: geminiAPIKey,
			Model:  cfg.GeminiModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI backend %q", cfg.AIBackend)
	}
}
