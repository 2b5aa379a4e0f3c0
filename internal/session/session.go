// Package session keeps short-term per-sender memory of the last resolved
// course, so follow-up questions work without repeating the course name.
// Entries expire lazily on access; there is no background sweep.
package session

import (
	"sync"
	"time"

	"github.com/motivaedu/coursebot-go/internal/catalog"
)

type entry struct {
	course  *catalog.Course
	touched time.Time
}

// Store is a TTL map from sender ID to the last resolved course. The stored
// course is a shared reference into a catalog snapshot, not a copy; a session
// may outlive a refresh and then point at a stale (but intact) record.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration

	now func() time.Time // test hook
}

// NewStore creates a session store with the given TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores or overwrites the sender's course and refreshes its timestamp.
func (s *Store) Put(senderID string, course *catalog.Course) {
	if senderID == "" || course == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[senderID] = entry{course: course, touched: s.now()}
}

// Get returns the sender's remembered course, or nil when there is none.
// An entry older than the TTL is deleted and reported as absent.
func (s *Store) Get(senderID string) *catalog.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[senderID]
	if !ok {
		return nil
	}
	if s.now().Sub(e.touched) > s.ttl {
		delete(s.entries, senderID)
		return nil
	}
	return e.course
}

// Len returns the number of stored entries, expired ones included until
// their next access.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
