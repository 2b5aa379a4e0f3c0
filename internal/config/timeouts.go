package config

import "time"

// HTTP server timeouts.
//
// Twilio expects the webhook to answer within 15 seconds; after that it
// retries the delivery. The write timeout leaves headroom for one sheet
// fetch (up to SHEET_TIMEOUT) happening inline on a cold catalog.
const (
	// WebhookHTTPRead is the HTTP server read timeout. Twilio posts a small
	// form payload, so reading should be fast.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	WebhookHTTPWrite = 30 * time.Second

	// WebhookHTTPIdle is the idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)
