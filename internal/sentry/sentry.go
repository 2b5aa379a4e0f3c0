// Package sentry wires error tracking through Better Stack's Sentry-compatible
// ingest. Initialization is optional: without a token every helper is a no-op,
// so call sites never need to branch on whether tracking is configured.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Config holds the Better Stack Errors connection settings.
type Config struct {
	// Token is the Better Stack Errors application token. Empty disables
	// error tracking entirely.
	Token string

	// Host is the ingesting host, e.g. "errors.betterstack.com".
	Host string

	// Environment tags events with the deployment environment.
	Environment string

	// Release tags events with the running version.
	Release string
}

// Initialize configures the Sentry SDK. With an empty token it returns nil
// and leaves tracking disabled.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}
	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	// Better Stack ignores the project ID segment; the SDK requires one.
	dsn := fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host)

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		AttachStacktrace: true,
	})
}

// Middleware returns the gin middleware that recovers panics, reports them,
// and re-panics so the framework's own recovery still answers the request.
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// Flush blocks until buffered events are delivered or the timeout passes.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled reports whether Initialize configured a client.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureException reports an error, preferring the hub bound to the request
// context when one exists.
func CaptureException(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
