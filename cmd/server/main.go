// Package main provides the WhatsApp course advisor server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/motivaedu/coursebot-go/internal/bot"
	"github.com/motivaedu/coursebot-go/internal/buildinfo"
	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/config"
	"github.com/motivaedu/coursebot-go/internal/leadlog"
	"github.com/motivaedu/coursebot-go/internal/logger"
	"github.com/motivaedu/coursebot-go/internal/metrics"
	"github.com/motivaedu/coursebot-go/internal/notify"
	"github.com/motivaedu/coursebot-go/internal/ratelimit"
	"github.com/motivaedu/coursebot-go/internal/sentry"
	"github.com/motivaedu/coursebot-go/internal/session"
	"github.com/motivaedu/coursebot-go/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, logger.Options{
		BetterstackToken:    cfg.BetterstackToken,
		BetterstackEndpoint: cfg.BetterstackEndpoint,
	})
	log.WithField("release", buildinfo.Release()).Info("Starting course advisor server")

	// Initialize error tracking (no-op without a token)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.Environment,
		Release:     buildinfo.Release(),
	}); err != nil {
		log.WithError(err).Fatal("Failed to initialize error tracking")
	}
	if sentry.IsEnabled() {
		log.Info("Error tracking enabled")
	}

	// Open the lead audit log when configured
	var leads *leadlog.Log
	if cfg.LeadLogPath != "" {
		leads, err = leadlog.Open(cfg.LeadLogPath)
		if err != nil {
			log.WithError(err).Fatal("Failed to open lead log")
		}
		defer func() { _ = leads.Close() }()
		log.WithField("path", cfg.LeadLogPath).Info("Lead log opened")
	}

	// Create Prometheus registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Course catalog backed by the published sheet CSV
	var fetcher catalog.Fetcher
	if cfg.SheetCSVURL != "" {
		fetcher = catalog.NewHTTPFetcher(cfg.SheetCSVURL, cfg.SheetTimeout)
	} else {
		log.Warn("SHEET_CSV_URL not set, catalog will be empty")
	}
	store := catalog.NewStore(fetcher, cfg.CatalogTTL, m, log)

	// Per-sender conversation memory
	sessions := session.NewStore(cfg.SessionTTL)

	// Advisor handoff notifier (degrades to disabled without Twilio credentials)
	notifier := notify.NewTwilio(notify.Config{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioWhatsAppNumber,
		To:         cfg.AdvisorNumber,
		BrandName:  cfg.BrandName,
		Timeout:    cfg.NotifyTimeout,
	}, m, log)
	if !cfg.NotifierConfigured() {
		log.Warn("Twilio credentials incomplete, advisor notifications disabled")
	}

	processor := bot.NewProcessor(bot.Config{
		Catalog:   store,
		Sessions:  sessions,
		Notifier:  notifier,
		Leads:     leads,
		Metrics:   m,
		Logger:    log,
		BrandName: cfg.BrandName,
		BotName:   cfg.BotName,
	})
	limiter := ratelimit.NewSenderLimiter(float64(cfg.RateLimitBurst), float64(cfg.RateLimitPerMinute))
	webhookHandler := webhook.New(processor, limiter, m, log)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentry.Middleware())
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, webhookHandler, store, leads, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Warm the catalog in the background so the first message does not pay
	// for the initial sheet fetch
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.SheetTimeout+5*time.Second)
	go func() {
		defer warmCancel()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in catalog warm goroutine")
			}
		}()
		if _, err := store.Snapshot(warmCtx, true); err != nil {
			log.WithError(err).Warn("Initial catalog warm failed, will retry on first message")
		}
	}()

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if err := leads.Close(); err != nil {
		log.WithError(err).Error("Failed to close lead log")
	}
	sentry.Flush(2 * time.Second)

	log.Info("Server stopped")
}
