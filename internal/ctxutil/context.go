// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import "context"

type contextKey string

const (
	senderIDKey  contextKey = "ctxutil.senderID"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithSenderID adds the inbound WhatsApp sender identifier to the context.
// The sender ID drives session lookup and price-column inference.
func WithSenderID(ctx context.Context, senderID string) context.Context {
	return context.WithValue(ctx, senderIDKey, senderID)
}

// GetSenderID retrieves the sender ID from the context.
// Returns empty string if not set.
func GetSenderID(ctx context.Context) string {
	if v, ok := ctx.Value(senderIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRequestID adds a request ID to the context for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not set.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
