// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrSourceNotConfigured indicates no sheet URL is configured; the
	// catalog stays empty instead of failing.
	ErrSourceNotConfigured = errors.New("data source not configured")

	// ErrNotifierDisabled indicates advisor notification credentials are
	// absent; the handoff proceeds without a notification.
	ErrNotifierDisabled = errors.New("advisor notifier not configured")
)

// DataSourceError represents a failure to fetch or read the course sheet.
// The prior catalog snapshot is retained when this error is surfaced.
type DataSourceError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DataSourceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("data source error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("data source error (url=%s): %v", e.URL, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// NewDataSourceError creates a new data source error.
func NewDataSourceError(url string, statusCode int, err error) *DataSourceError {
	return &DataSourceError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// SchemaError indicates the sheet header row is missing required columns.
type SchemaError struct {
	MissingHeaders  []string
	ReceivedHeaders []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet schema error: missing required headers [%s], received [%s]",
		strings.Join(e.MissingHeaders, ", "), strings.Join(e.ReceivedHeaders, ", "))
}

// NewSchemaError creates a new schema error listing the missing headers.
func NewSchemaError(missing, received []string) *SchemaError {
	return &SchemaError{
		MissingHeaders:  missing,
		ReceivedHeaders: received,
	}
}

// NotificationError represents a failed advisor handoff notification.
// It is logged and treated as non-fatal; the user still gets a handoff reply.
type NotificationError struct {
	StatusCode int
	Err        error
}

func (e *NotificationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("notification error (status=%d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("notification error: %v", e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// NewNotificationError creates a new notification error.
func NewNotificationError(statusCode int, err error) *NotificationError {
	return &NotificationError{
		StatusCode: statusCode,
		Err:        err,
	}
}
