package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/motivaedu/coursebot-go/internal/errors"
	"github.com/motivaedu/coursebot-go/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	csv   string
	err   error
	calls atomic.Int64
}

func (f *fakeFetcher) Fetch(_ context.Context) (io.ReadCloser, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.csv)), nil
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard, logger.Options{})
}

func newTestStore(f Fetcher, ttl time.Duration) (*Store, *time.Time) {
	store := NewStore(f, ttl, nil, testLogger())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestStoreCachesWithinTTL(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{csv: sheetHeader + "\n" + sheetRow("Curso X", nil)}
	store, now := newTestStore(fetcher, 300*time.Second)

	first, err := store.Snapshot(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, first.Courses, 1)

	*now = now.Add(299 * time.Second)
	second, err := store.Snapshot(context.Background(), false)
	require.NoError(t, err)

	assert.Same(t, first, second, "fresh snapshot must be reused")
	assert.EqualValues(t, 1, fetcher.calls.Load(), "two reads within the TTL issue exactly one fetch")
}

func TestStoreRefetchesAfterTTL(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{csv: sheetHeader + "\n" + sheetRow("Curso X", nil)}
	store, now := newTestStore(fetcher, 300*time.Second)

	_, err := store.Snapshot(context.Background(), false)
	require.NoError(t, err)

	*now = now.Add(301 * time.Second)
	_, err = store.Snapshot(context.Background(), false)
	require.NoError(t, err)

	assert.EqualValues(t, 2, fetcher.calls.Load())
}

func TestStoreForceRefreshBypassesTTL(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{csv: sheetHeader + "\n" + sheetRow("Curso X", nil)}
	store, _ := newTestStore(fetcher, 300*time.Second)

	_, err := store.Snapshot(context.Background(), false)
	require.NoError(t, err)
	_, err = store.Snapshot(context.Background(), true)
	require.NoError(t, err)

	assert.EqualValues(t, 2, fetcher.calls.Load())
}

func TestStoreKeepsPreviousSnapshotOnFailure(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{csv: sheetHeader + "\n" + sheetRow("Curso X", nil)}
	store, now := newTestStore(fetcher, 300*time.Second)

	first, err := store.Snapshot(context.Background(), false)
	require.NoError(t, err)

	fetcher.err = apperrors.NewDataSourceError("https://sheets.example.com", 0, errors.New("unreachable"))
	*now = now.Add(301 * time.Second)

	_, err = store.Snapshot(context.Background(), false)
	require.Error(t, err)
	var dsErr *apperrors.DataSourceError
	assert.ErrorAs(t, err, &dsErr)

	assert.Same(t, first, store.Current(), "failed refresh must keep the previous snapshot")
}

func TestStoreSchemaErrorSurfaced(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{csv: "Curso,Texto Principal\nX,y"}
	store, _ := newTestStore(fetcher, 300*time.Second)

	_, err := store.Snapshot(context.Background(), false)
	require.Error(t, err)
	var schemaErr *apperrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.MissingHeaders)
}

func TestStoreNilFetcherYieldsEmptyCatalog(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(nil, 300*time.Second)

	snap, err := store.Snapshot(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, snap.Courses)
	assert.Empty(t, snap.Titles())
}

func TestStoreAliasIndexRebuiltOnRefresh(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{csv: sheetHeader + "\n" + sheetRow("Curso de Excel Avanzado", map[string]string{"Alias": "excel-pro"})}
	store, _ := newTestStore(fetcher, 300*time.Second)

	snap, err := store.Snapshot(context.Background(), false)
	require.NoError(t, err)
	require.Contains(t, snap.AliasIndex, "excel-pro")
	assert.Equal(t, "Curso de Excel Avanzado", snap.AliasIndex["excel-pro"].Title)
}
