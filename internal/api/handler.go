// Package api exposes the capture-and-analysis pipeline over HTTP. It is
// presentation glue: validation, dispatch, and persistence of results the
// core pipeline produced.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veedor/veedor/internal/analysis"
	"github.com/veedor/veedor/internal/artifacts"
	"github.com/veedor/veedor/internal/capture"
	"github.com/veedor/veedor/internal/intake"
	"github.com/veedor/veedor/internal/logging"
	"github.com/veedor/veedor/internal/models"
	"github.com/veedor/veedor/internal/store"
	"github.com/veedor/veedor/internal/vision"
)

// Handler serves the batch endpoints.
type Handler struct {
	orchestrator *capture.Orchestrator
	store        *store.Store
	logger       logging.Logger
	defaults     models.ComplianceConfig
	geminiAPIKey string
	maxBatchURLs int
	newBackend   func(models.ComplianceConfig, string) (vision.Backend, error)
}

// NewHandler wires the HTTP handler. maxBatchURLs caps how many URLs one
// synchronous batch may carry.
func NewHandler(orchestrator *capture.Orchestrator, st *store.Store, defaults models.ComplianceConfig, geminiAPIKey string, maxBatchURLs int, logger logging.Logger) *Handler {
	if maxBatchURLs <= 0 {
		maxBatchURLs = 30
	}
	return &Handler{
		orchestrator: orchestrator,
		store:        st,
		logger:       logger,
		defaults:     defaults,
		geminiAPIKey: geminiAPIKey,
		maxBatchURLs: maxBatchURLs,
		newBackend:   vision.New,
	}
}

// RegisterRoutes mounts the API under the given group.
func RegisterRoutes(group *gin.RouterGroup, h *Handler) {
	group.POST("/batches", h.runBatch)
	group.POST("/batches/file", h.runBatchFromFile)
	group.GET("/batches", h.listBatches)
	group.GET("/batches/:id", h.getBatch)
	group.DELETE("/batches/:id", h.deleteBatch)
	group.GET("/posts", h.listPosts)
	group.GET("/posts/:id", h.getPost)
	group.GET("/config", h.getConfig)
	group.PUT("/config", h.putConfig)
	group.GET("/backends/ollama", h.ollamaStatus)
}

type batchRequest struct {
	URLs   []string                 `json:"urls" binding:"required"`
	Config *models.ComplianceConfig `json:"config"`
}

type batchResponse struct {
	BatchID string              `json:"batch_id"`
	Summary store.BatchSummary  `json:"summary"`
	Posts   []models.PostResult `json:"posts"`
}

// runBatch captures and analyzes a URL list synchronously. The backend is
// constructed first so a configuration error aborts before any browser work.
func (h *Handler) runBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	h.executeBatch(c, req.URLs, req.Config)
}

// runBatchFromFile accepts a CSV upload with URLs in the first column and
// runs the same pipeline as runBatch.
func (h *Handler) runBatchFromFile(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload: " + err.Error()})
		return
	}
	defer file.Close()

	urls := intake.ParseURLFile(file)
	if len(urls) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid URLs in file"})
		return
	}
	h.executeBatch(c, urls, nil)
}

func (h *Handler) executeBatch(c *gin.Context, urls []string, override *models.ComplianceConfig) {
	var targets []capture.Target
	for _, raw := range urls {
		cleaned := intake.CleanURL(raw)
		if !intake.ValidateURL(cleaned) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid URL: " + raw})
			return
		}
		targets = append(targets, capture.Target{
			URL:      cleaned,
			Platform: intake.DetectPlatform(cleaned),
		})
	}
	if len(targets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no URLs provided"})
		return
	}
	if len(targets) > h.maxBatchURLs {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("too many URLs: a batch is limited to %d", h.maxBatchURLs),
		})
		return
	}

	// Request override > saved configuration > environment defaults.
	cfg := h.store.LoadComplianceConfig(h.defaults)
	if override != nil {
		cfg = *override
	}
	backend, err := h.newBackend(cfg, h.geminiAPIKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	captured, err := h.orchestrator.CaptureBatch(targets, nil)
	if err != nil {
		h.logger.WithError(err).Error("Batch capture aborted")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	analyzer := analysis.NewAnalyzer(backend, h.logger)
	results := analyzer.AnalyzeBatch(c.Request.Context(), captured, cfg, nil)

	if err := h.store.SavePosts(results); err != nil {
		h.logger.WithError(err).Error("Failed to persist batch results")
	}

	batchID := ""
	if len(results) > 0 {
		batchID = results[0].BatchID
	}
	summary, err := h.store.Summarize(batchID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to summarize batch")
	}
	c.JSON(http.StatusOK, batchResponse{BatchID: batchID, Summary: summary, Posts: results})
}

func (h *Handler) listBatches(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	batches, err := h.store.RecentBatches(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

func (h *Handler) getBatch(c *gin.Context) {
	batchID := c.Param("id")
	posts, err := h.store.ListPosts(batchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.store.Summarize(batchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, batchResponse{BatchID: batchID, Summary: summary, Posts: posts})
}

func (h *Handler) deleteBatch(c *gin.Context) {
	if err := h.store.DeleteBatch(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Query("batch_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// postDetail optionally inlines the stored screenshot so gallery clients can
// render without a second request.
type postDetail struct {
	models.PostResult
	ScreenshotBase64 string `json:"screenshot_base64,omitempty"`
}

func (h *Handler) getPost(c *gin.Context) {
	post, err := h.store.GetPost(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	detail := postDetail{PostResult: *post}
	if include, _ := strconv.ParseBool(c.Query("include_image")); include {
		detail.ScreenshotBase64 = artifacts.ImageBase64(post.ScreenshotPath)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.LoadComplianceConfig(h.defaults))
}

func (h *Handler) putConfig(c *gin.Context) {
	var cfg models.ComplianceConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config: " + err.Error()})
		return
	}
	if err := h.store.SaveComplianceConfig(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ollamaStatus(c *gin.Context) {
	cfg := h.store.LoadComplianceConfig(h.defaults)
	client := vision.NewOllamaClient(vision.OllamaConfig{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
	})
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"running": client.CheckConnection(ctx),
		"models":  client.ListModels(ctx),
	})
}
