// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"dnstool/propagation/internal/config"
	"dnstool/propagation/internal/dnsclient"
	"dnstool/propagation/internal/handlers"
	"dnstool/propagation/internal/middleware"
	"dnstool/propagation/internal/propagation"
	"dnstool/propagation/internal/telemetry"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	dnsclient.SetUserAgentVersion(cfg.AppVersion)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestContext())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized", "backend", "in-memory", "max_requests", middleware.RateLimitMaxRequests, "window_seconds", middleware.RateLimitWindow)

	resolverTelemetry := telemetry.NewRegistry()
	checker := propagation.New(propagation.WithTelemetry(resolverTelemetry))
	slog.Info("Propagation checker initialized", "default_timeout_ms", cfg.DefaultTimeoutMs)

	propagationHandler := handlers.NewPropagationHandler(cfg, checker)
	healthHandler := handlers.NewHealthHandler(resolverTelemetry)

	router.GET("/go/health", healthHandler.HealthCheck)
	router.GET("/api/health", healthHandler.HealthCheck)

	router.GET("/api/propagation", propagationHandler.Check)
	router.POST("/api/propagation", middleware.CheckRateLimit(rateLimiter), propagationHandler.Check)

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	slog.Info("Starting propagation check server", "address", addr, "version", cfg.AppVersion)

	if err := router.Run(addr); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
