package capture

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veedor/veedor/internal/artifacts"
	"github.com/veedor/veedor/internal/logging"
	"github.com/veedor/veedor/internal/models"
)

// Target is one URL to capture, with its already-detected platform.
type Target struct {
	URL      string
	Platform models.Platform
}

// ProgressFunc receives fractional progress in [0,1] plus a human-readable
// status message. The fraction never decreases within one batch.
type ProgressFunc func(fraction float64, message string)

// session abstracts the browser session so batch logic is testable without
// Chromium.
type session interface {
	Start() error
	NewIsolatedPage() (PageDriver, func(), error)
	Close()
}

// Orchestrator runs URL batches against a single browser session per batch.
type Orchestrator struct {
	timing     Timing
	artifacts  *artifacts.Store
	logger     logging.Logger
	newSession func() session
}

// NewOrchestrator wires the orchestrator with its artifact store and timing.
func NewOrchestrator(store *artifacts.Store, timing Timing, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		timing:     timing.withDefaults(),
		artifacts:  store,
		logger:     logger,
		newSession: func() session { return NewSession() },
	}
}

// CaptureBatch processes every target in order and returns one PostResult
// per target: PENDING on success, ERROR on per-URL failure. Only a session
// launch failure aborts the batch.
//
// The whole batch — launch, every capture, teardown — runs on one dedicated
// goroutine; the caller blocks on a one-shot channel until it finishes. The
// browser engine gets exclusive control of its own scheduling and never
// shares mutable state with the caller's context.
func (o *Orchestrator) CaptureBatch(targets []Target, progress ProgressFunc) ([]models.PostResult, error) {
	type outcome struct {
		results []models.PostResult
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		results, err := o.runBatch(targets, progress)
		done <- outcome{results: results, err: err}
	}()

	out := <-done
	return out.results, out.err
}

func (o *Orchestrator) runBatch(targets []Target, progress ProgressFunc) ([]models.PostResult, error) {
	if progress != nil {
		progress(0.0, fmt.Sprintf("Iniciando captura de %d URLs...", len(targets)))
	}

	sess := o.newSession()
	if err := sess.Start(); err != nil {
		sessionLaunchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("start browser session: %w", err)
	}
	sessionLaunchesTotal.WithLabelValues("ok").Inc()
	defer sess.Close()

	batchID := uuid.New().String()
	results := make([]models.PostResult, 0, len(targets))
	for i, target := range targets {
		results = append(results, o.captureOne(sess, target, batchID))
		if progress != nil {
			progress(float64(i+1)/float64(len(targets)), fmt.Sprintf("Capturada %d/%d", i+1, len(targets)))
		}
	}

	if progress != nil {
		progress(1.0, fmt.Sprintf("Captura completada: %d URLs procesadas", len(targets)))
	}
	return results, nil
}

// captureOne resolves the platform's strategy and locators, captures inside a
// fresh isolated page, and persists the artifacts. Any failure becomes an
// ERROR record; the batch moves on.
func (o *Orchestrator) captureOne(sess session, target Target, batchID string) models.PostResult {
	postID := uuid.New().String()
	result := models.PostResult{
		PostID:    postID,
		URL:       target.URL,
		Platform:  target.Platform,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
		BatchID:   batchID,
	}

	page, cleanup, err := sess.NewIsolatedPage()
	if err != nil {
		return o.failCapture(result, target, err)
	}
	defer cleanup()

	strategy := StrategyFor(target.Platform, o.timing)
	loc := LocatorsFor(target.Platform)

	start := time.Now()
	shot, text, err := strategy.Capture(page, target.URL, loc)
	captureDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return o.failCapture(result, target, err)
	}

	screenshotPath, err := o.artifacts.SaveScreenshot(postID, shot)
	if err != nil {
		return o.failCapture(result, target, err)
	}

	result.ExtractedText = text
	result.ScreenshotPath = screenshotPath
	result.ThumbnailPath = o.artifacts.CreateThumbnail(screenshotPath)

	capturesTotal.WithLabelValues(string(target.Platform), "ok").Inc()
	o.logger.WithFields(logging.Fields{
		"url":      target.URL,
		"platform": target.Platform,
		"post_id":  postID,
	}).Info("Captured post")
	return result
}

func (o *Orchestrator) failCapture(result models.PostResult, target Target, err error) models.PostResult {
	capturesTotal.WithLabelValues(string(target.Platform), "error").Inc()
	o.logger.WithError(err).WithFields(logging.Fields{
		"url":      target.URL,
		"platform": target.Platform,
	}).Warn("Capture failed")
	result.Status = models.StatusError
	result.ErrorMessage = err.Error()
	return result
}
