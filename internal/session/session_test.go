package session

import (
	"testing"
	"time"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	store := NewStore(ttl)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestPutGet(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(time.Hour)
	course := &catalog.Course{Title: "Excel Avanzado"}

	store.Put("sender-1", course)
	assert.Same(t, course, store.Get("sender-1"), "stored course is a shared reference, not a copy")
	assert.Nil(t, store.Get("sender-2"))
}

func TestTTLBoundary(t *testing.T) {
	t.Parallel()
	store, now := newTestStore(time.Hour)
	course := &catalog.Course{Title: "Excel Avanzado"}
	store.Put("sender-1", course)

	*now = now.Add(3599 * time.Second)
	assert.NotNil(t, store.Get("sender-1"), "entry must survive at TTL-1s")

	*now = now.Add(2 * time.Second) // total 3601s
	assert.Nil(t, store.Get("sender-1"), "entry must be gone past the TTL")
	assert.Zero(t, store.Len(), "expired entry is removed on access")
}

func TestPutOverwrites(t *testing.T) {
	t.Parallel()
	store, now := newTestStore(time.Hour)
	first := &catalog.Course{Title: "Excel"}
	second := &catalog.Course{Title: "Marketing"}

	store.Put("sender-1", first)
	*now = now.Add(30 * time.Minute)
	store.Put("sender-1", second)

	*now = now.Add(45 * time.Minute)
	// 75 minutes after the first put, 45 after the overwrite: still alive
	// because Put refreshes the timestamp.
	assert.Same(t, second, store.Get("sender-1"))
}

func TestIgnoresEmptyInputs(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(time.Hour)
	store.Put("", &catalog.Course{Title: "X"})
	store.Put("sender", nil)
	assert.Zero(t, store.Len())
}
