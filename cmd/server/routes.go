// Package main provides the WhatsApp course advisor server entry point.
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/leadlog"
	"github.com/motivaedu/coursebot-go/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, webhookHandler *webhook.Handler, store *catalog.Store, leads *leadlog.Log, registry *prometheus.Registry) {
	// Root endpoint - minimal service identification
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "coursebot"})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - dependency check plus catalog state
	readyHandler := func(c *gin.Context) {
		if err := leads.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		courses := 0
		fetchedAt := ""
		if snap := store.Current(); snap != nil {
			courses = len(snap.Courses)
			fetchedAt = snap.FetchedAt.Format(time.RFC3339)
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"catalog": gin.H{
				"courses":    courses,
				"fetched_at": fetchedAt,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Twilio WhatsApp webhook; the sandbox console also probes with GET
	router.GET("/whatsapp", webhookHandler.HandleWhatsApp)
	router.POST("/whatsapp", webhookHandler.HandleWhatsApp)

	// Force a sheet refetch, bypassing the snapshot TTL
	refreshHandler := func(c *gin.Context) {
		snap, err := store.Snapshot(c.Request.Context(), true)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"courses":    len(snap.Courses),
			"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		})
	}
	router.GET("/sheet/refresh", refreshHandler)
	router.POST("/sheet/refresh", refreshHandler)

	// Compact view of the parsed catalog for operators
	router.GET("/sheet/preview", func(c *gin.Context) {
		snap, err := store.Snapshot(c.Request.Context(), false)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}

		preview := make([]gin.H, 0, len(snap.Courses))
		for _, course := range snap.Courses {
			prices := 0
			for _, p := range course.Prices {
				if p != "" {
					prices++
				}
			}
			preview = append(preview, gin.H{
				"title":      course.Title,
				"start_date": course.StartDate,
				"duration":   course.Duration,
				"schedule":   course.Schedule,
				"prices":     prices,
				"has_pdf":    course.PDFLink != "",
				"has_faq":    course.FAQ != "",
				"aliases":    course.Aliases,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"fetched_at": snap.FetchedAt.Format(time.RFC3339),
			"courses":    preview,
		})
	})

	// Latest recorded handoffs from the lead audit log
	router.GET("/leads/recent", func(c *gin.Context) {
		limit := 20
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}
		entries, err := leads.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"leads": entries})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
