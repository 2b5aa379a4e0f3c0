package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	apperrors "github.com/motivaedu/coursebot-go/internal/errors"
	"github.com/motivaedu/coursebot-go/internal/logger"
	"github.com/motivaedu/coursebot-go/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Store owns the current catalog snapshot. Reads within the TTL are served
// without I/O; a stale read triggers a sheet fetch deduplicated across
// concurrent callers. The snapshot pointer is swapped atomically, so a reader
// mid-request sees either the old or the new snapshot, never a torn one.
type Store struct {
	fetcher Fetcher
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger

	current atomic.Pointer[Snapshot]
	group   singleflight.Group

	now func() time.Time // test hook
}

// NewStore creates a catalog store. fetcher may be nil when no sheet URL is
// configured; the catalog then stays empty instead of failing.
func NewStore(fetcher Fetcher, ttl time.Duration, m *metrics.Metrics, log *logger.Logger) *Store {
	return &Store{
		fetcher: fetcher,
		ttl:     ttl,
		metrics: m,
		logger:  log.WithModule("catalog"),
		now:     time.Now,
	}
}

// Snapshot returns the current catalog snapshot, fetching the sheet when the
// cached one is older than the TTL or force is set. On a refresh failure the
// previous snapshot is kept and the error is surfaced to the caller.
func (s *Store) Snapshot(ctx context.Context, force bool) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil && !force && s.now().Sub(snap.FetchedAt) < s.ttl {
		if s.metrics != nil {
			s.metrics.CacheHitsTotal.Inc()
		}
		return snap, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.Inc()
	}

	v, err, shared := s.group.Do("sheet", func() (any, error) {
		return s.refresh(ctx)
	})
	if shared && s.metrics != nil {
		s.metrics.SingleflightShared.Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Courses is a convenience wrapper over Snapshot.
func (s *Store) Courses(ctx context.Context) ([]*Course, error) {
	snap, err := s.Snapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	return snap.Courses, nil
}

// Current returns the last installed snapshot without any I/O, or nil when
// no refresh has completed yet.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// refresh fetches and parses the sheet and installs a new snapshot.
func (s *Store) refresh(ctx context.Context) (*Snapshot, error) {
	start := s.now()

	if s.fetcher == nil {
		snap := s.install(nil)
		s.logger.Debug("No sheet source configured, catalog left empty")
		return snap, nil
	}

	body, err := s.fetcher.Fetch(ctx)
	if errors.Is(err, apperrors.ErrSourceNotConfigured) {
		snap := s.install(nil)
		s.logger.Debug("No sheet source configured, catalog left empty")
		return snap, nil
	}
	if err != nil {
		s.recordFetch("transport_error", start)
		s.logger.WithError(err).Error("Sheet fetch failed, keeping previous snapshot")
		return nil, err
	}
	defer func() { _ = body.Close() }()

	courses, err := ParseSheet(body)
	if err != nil {
		var schemaErr *apperrors.SchemaError
		if errors.As(err, &schemaErr) {
			s.recordFetch("schema_error", start)
		} else {
			s.recordFetch("transport_error", start)
		}
		s.logger.WithError(err).Error("Sheet parse failed, keeping previous snapshot")
		return nil, err
	}

	snap := s.install(courses)
	s.recordFetch("success", start)
	s.logger.WithField("courses", len(courses)).Info("Catalog refreshed")
	return snap, nil
}

// install atomically replaces the current snapshot.
func (s *Store) install(courses []*Course) *Snapshot {
	snap := &Snapshot{
		Courses:    courses,
		FetchedAt:  s.now(),
		AliasIndex: buildAliasIndex(courses),
	}
	s.current.Store(snap)
	if s.metrics != nil {
		s.metrics.CatalogCourses.Set(float64(len(courses)))
	}
	return snap
}

func (s *Store) recordFetch(status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.SheetFetchesTotal.WithLabelValues(status).Inc()
	s.metrics.SheetFetchDuration.Observe(s.now().Sub(start).Seconds())
}
