package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/corpix/uarand"
	apperrors "github.com/motivaedu/coursebot-go/internal/errors"
)

// Fetcher retrieves the raw course sheet. Implementations must be safe for
// concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// HTTPFetcher fetches the published CSV of the course sheet over HTTP.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given published CSV URL.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs a single GET with a bounded timeout and no retry. A
// transport failure or non-2xx status yields a DataSourceError.
func (f *HTTPFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if f.url == "" {
		return nil, apperrors.ErrSourceNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, apperrors.NewDataSourceError(f.url, 0, err)
	}
	req.Header.Set("User-Agent", uarand.GetRandom())
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewDataSourceError(f.url, 0, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, apperrors.NewDataSourceError(f.url, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}
	return resp.Body, nil
}
