package main

import (
	"github.com/veedor/veedor/internal/api"
	"github.com/veedor/veedor/internal/artifacts"
	"github.com/veedor/veedor/internal/capture"
	"github.com/veedor/veedor/internal/config"
	"github.com/veedor/veedor/internal/env"
	"github.com/veedor/veedor/internal/logging"
	"github.com/veedor/veedor/internal/server"
	"github.com/veedor/veedor/internal/store"
)

func main() {
	logger := logging.NewLoggerWithService("veedor")

	env.Load(logger)

	logger.Info("Starting Veedor (social post compliance auditor)")

	cfg := config.LoadConfig()

	artifactStore, err := artifacts.NewStore(cfg.ScreenshotsDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to prepare screenshots directory")
	}

	resultStore, err := store.NewStore(cfg.DatabasePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open results database")
	}

	orchestrator := capture.NewOrchestrator(artifactStore, capture.Timing{
		Capture: cfg.CaptureTimeout,
		Ready:   cfg.ReadyTimeout,
	}, logger)

	handler := api.NewHandler(orchestrator, resultStore, cfg.ComplianceDefaults(), cfg.GeminiAPIKey, cfg.MaxBatchURLs, logger)

	router := server.SetupRouter(logger, "veedor")
	apiGroup := router.Group("/api/veedor")
	api.RegisterRoutes(apiGroup, handler)

	serverConfig := server.DefaultConfig("veedor", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
