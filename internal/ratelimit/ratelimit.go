// Package ratelimit provides a token bucket limiter keyed by sender.
// It throttles WhatsApp numbers that flood the webhook, one bucket per
// sender, with idle buckets swept away on the allocation path.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket. Tokens refill at a constant rate up to the
// burst capacity; each message consumes one token.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// SenderLimiter hands each sender its own token bucket.
// It is safe for concurrent use.
type SenderLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	burst      float64
	refillRate float64 // tokens per second

	lastSweep  time.Time
	sweepEvery time.Duration

	now func() time.Time // test hook
}

// NewSenderLimiter creates a limiter allowing perMinute messages per sender
// with the given burst capacity. perMinute <= 0 disables limiting entirely.
func NewSenderLimiter(burst float64, perMinute float64) *SenderLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &SenderLimiter{
		buckets:    make(map[string]*bucket),
		burst:      burst,
		refillRate: perMinute / 60,
		lastSweep:  time.Now(),
		sweepEvery: 10 * time.Minute,
		now:        time.Now,
	}
}

// Allow reports whether the sender may send another message, consuming one
// token when it may. A nil limiter allows everything.
func (s *SenderLimiter) Allow(senderID string) bool {
	if s == nil {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.sweepEvery {
		s.sweep(now)
	}

	b, ok := s.buckets[senderID]
	if !ok {
		b = &bucket{tokens: s.burst, lastRefill: now}
		s.buckets[senderID] = b
	} else {
		b.tokens += now.Sub(b.lastRefill).Seconds() * s.refillRate
		if b.tokens > s.burst {
			b.tokens = s.burst
		}
		b.lastRefill = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Len returns the number of tracked senders.
func (s *SenderLimiter) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// sweep drops buckets that refilled back to capacity; those senders have
// been quiet long enough to forget. Must be called with mu held.
func (s *SenderLimiter) sweep(now time.Time) {
	s.lastSweep = now
	for id, b := range s.buckets {
		tokens := b.tokens + now.Sub(b.lastRefill).Seconds()*s.refillRate
		if tokens >= s.burst {
			delete(s.buckets, id)
		}
	}
}
