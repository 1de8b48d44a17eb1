// Package analysis turns captured posts into compliance verdicts: it sends
// the screenshot and extracted text to a vision backend, recovers the
// structured response, and derives the pass/fail status.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/veedor/veedor/internal/logging"
	"github.com/veedor/veedor/internal/models"
	"github.com/veedor/veedor/internal/vision"
)

// ProgressFunc receives fractional progress in [0,1] plus a status message.
type ProgressFunc func(fraction float64, message string)

// Analyzer evaluates captured posts against a compliance configuration.
type Analyzer struct {
	backend vision.Backend
	logger  logging.Logger
}

// NewAnalyzer wires an analyzer to a vision backend.
func NewAnalyzer(backend vision.Backend, logger logging.Logger) *Analyzer {
	return &Analyzer{backend: backend, logger: logger}
}

// AnalyzePost evaluates one captured post. Posts already in error state pass
// through untouched: failed captures are never re-analyzed. Exactly one
// backend call is made per post; a malformed response is recorded, not
// re-prompted.
func (a *Analyzer) AnalyzePost(ctx context.Context, post models.PostResult, cfg models.ComplianceConfig) models.PostResult {
	if post.Status == models.StatusError {
		return post
	}
	if post.ScreenshotPath == "" {
		post.Status = models.StatusError
		post.ErrorMessage = "No hay screenshot disponible para analizar"
		return post
	}

	prompt := BuildCompliancePrompt(cfg.RequiredHashtags, cfg.EmotionalKeywords, cfg.BrandGuidelinesNotes)
	prompt = fmt.Sprintf("%s\n\nTexto extraido del post:\n%s", prompt, post.ExtractedText)

	image, err := os.ReadFile(post.ScreenshotPath)
	if err != nil {
		post.Status = models.StatusError
		post.ErrorMessage = fmt.Sprintf("Error en analisis: %v", err)
		return post
	}

	start := time.Now()
	raw, err := a.backend.Analyze(ctx, image, prompt)
	analyzeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		analyzeCallsTotal.WithLabelValues("transport_error").Inc()
		a.logger.WithError(err).WithField("post_id", post.PostID).Warn("Vision backend call failed")
		post.Status = models.StatusError
		post.ErrorMessage = fmt.Sprintf("Error en analisis: %v", err)
		return post
	}

	parsed, err := ExtractJSON(raw)
	if err != nil {
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			analyzeCallsTotal.WithLabelValues("malformed").Inc()
			// Raw text is kept for audit even though nothing parsed.
			post.Analysis = &models.AnalysisResult{RawAIResponse: raw}
			post.Status = models.StatusError
			post.ErrorMessage = fmt.Sprintf("No se pudo parsear la respuesta de la IA. Preview: %s", Preview(raw))
			return post
		}
		post.Status = models.StatusError
		post.ErrorMessage = fmt.Sprintf("Error en analisis: %v", err)
		return post
	}

	analyzeCallsTotal.WithLabelValues("ok").Inc()
	result := analysisFrom(parsed, raw)
	post.Analysis = &result
	if len(result.HashtagsMissing) > 0 || !result.BrandIdentity || len(result.DesignErrors) > 0 {
		post.Status = models.StatusNonCompliant
	} else {
		post.Status = models.StatusCompliant
	}
	return post
}

// AnalyzeBatch evaluates posts strictly in input order, one backend request
// at a time, reporting progress after each. One post's failure never aborts
// the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, posts []models.PostResult, cfg models.ComplianceConfig, progress ProgressFunc) []models.PostResult {
	results := make([]models.PostResult, 0, len(posts))
	for i, post := range posts {
		results = append(results, a.AnalyzePost(ctx, post, cfg))
		if progress != nil {
			progress(float64(i+1)/float64(len(posts)), fmt.Sprintf("Analizando %d/%d...", i+1, len(posts)))
		}
	}
	return results
}

// analysisFrom maps the recovered object into a typed result with defensive
// defaults: the model may omit any field.
func analysisFrom(parsed map[string]any, raw string) models.AnalysisResult {
	return models.AnalysisResult{
		HashtagsPresent:      stringList(parsed, "hashtags_encontrados"),
		HashtagsMissing:      stringList(parsed, "hashtags_faltantes"),
		EmotionalScore:       floatField(parsed, "puntaje_emotivo"),
		ToneLabel:            stringField(parsed, "etiqueta_tono", "informativo"),
		BrandIdentity:        boolField(parsed, "identidad_marca"),
		DesignErrors:         stringList(parsed, "errores_diseno"),
		CommonErrors:         stringList(parsed, "errores_comunes"),
		SuggestedCorrections: stringList(parsed, "correcciones_sugeridas"),
		RawAIResponse:        raw,
	}
}

func stringList(m map[string]any, key string) []string {
	out := []string{}
	items, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0.0
}

func stringField(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
