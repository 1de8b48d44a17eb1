// Package models holds the shared data types for capture and compliance
// analysis: platforms, result records, and the per-batch configuration.
package models

import (
	"time"
)

// Platform identifies the social network a post URL belongs to.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformUnknown   Platform = "unknown"
)

// ComplianceStatus is the lifecycle status of a captured post.
type ComplianceStatus string

const (
	StatusPending      ComplianceStatus = "pendiente"
	StatusCompliant    ComplianceStatus = "cumple"
	StatusNonCompliant ComplianceStatus = "no-cumple"
	StatusError        ComplianceStatus = "error"
)

// AIBackend selects which vision backend analyzes captured posts.
type AIBackend string

const (
	BackendGemini AIBackend = "gemini"
	BackendOllama AIBackend = "ollama"
)

// AnalysisResult is the structured outcome of one vision-model evaluation.
// RawAIResponse is always retained, even when parsing failed, for audit.
type AnalysisResult struct {
	HashtagsPresent      []string `json:"hashtags_present"`
	HashtagsMissing      []string `json:"hashtags_missing"`
	EmotionalScore       float64  `json:"emotional_score"`
	ToneLabel            string   `json:"tone_label"`
	BrandIdentity        bool     `json:"brand_identity"`
	DesignErrors         []string `json:"design_errors"`
	CommonErrors         []string `json:"common_errors"`
	SuggestedCorrections []string `json:"suggested_corrections"`
	RawAIResponse        string   `json:"raw_ai_response"`
}

// PostResult is the per-URL record produced by capture and mutated in place
// by analysis. Records are never dropped: a failed URL still yields a
// PostResult with StatusError and an error message.
type PostResult struct {
	PostID         string           `json:"post_id" gorm:"primaryKey"`
	URL            string           `json:"url"`
	Platform       Platform         `json:"platform"`
	Status         ComplianceStatus `json:"status"`
	ExtractedText  string           `json:"extracted_text"`
	ScreenshotPath string           `json:"screenshot_path"`
	ThumbnailPath  string           `json:"thumbnail_path"`
	Analysis       *AnalysisResult  `json:"analysis,omitempty" gorm:"serializer:json"`
	ErrorMessage   string           `json:"error_message"`
	CreatedAt      time.Time        `json:"created_at"`
	BatchID        string           `json:"batch_id" gorm:"index"`
}

// ComplianceConfig carries the evaluation guidelines and backend selection
// for one batch. It is read-only for the duration of a batch and safe to
// share by reference.
type ComplianceConfig struct {
	RequiredHashtags      []string  `json:"required_hashtags"`
	EmotionalKeywords     []string  `json:"emotional_keywords"`
	InformationalKeywords []string  `json:"informational_keywords"`
	BrandGuidelinesNotes  string    `json:"brand_guidelines_notes"`
	AIBackend             AIBackend `json:"ai_backend"`
	OllamaModel           string    `json:"ollama_model"`
	OllamaURL             string    `json:"ollama_url"`
	GeminiModel           string    `json:"gemini_model"`
}

// DefaultComplianceConfig returns the institutional defaults used when a
// batch does not override them.
func DefaultComplianceConfig() ComplianceConfig {
	return ComplianceConfig{
		RequiredHashtags: []string{"#BogotaCambia", "#GobiernoDistrital"},
		EmotionalKeywords: []string{
			"juntos", "corazon", "orgullo", "suenos", "familia",
			"esperanza", "amor", "comunidad", "transformar", "vida",
		},
		InformationalKeywords: []string{
			"informamos", "comunicado", "resolucion", "decreto",
			"convocatoria", "plazo", "requisitos", "tramite",
		},
		AIBackend:   BackendGemini,
		OllamaModel: "llama3.2-vision",
		OllamaURL:   "http://localhost:11434",
		GeminiModel: "gemini-2.0-flash",
	}
}
