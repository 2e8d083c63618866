package dedupe

import (
	"sync"
	"time"
)

type entry struct {
	id string
	ts time.Time
}

// Seen tracks recently indexed article IDs so producer restarts and
// redeliveries do not create duplicate documents. Entries expire after ttl;
// when the set exceeds capacity the oldest entries go first.
type Seen struct {
	mu       sync.Mutex
	when     map[string]time.Time
	queue    []entry
	capacity int
	ttl      time.Duration
}

// New creates a seen-set with the provided capacity and ttl.
func New(capacity int, ttl time.Duration) *Seen {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Seen{
		when:     make(map[string]time.Time, capacity),
		queue:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Observed reports whether id was recorded within the ttl window. It does
// not record the id; call Record after a successful index.
func (s *Seen) Observed(id string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.when[id]
	return ok && now.Sub(ts) <= s.ttl
}

// Record remembers that id has been indexed.
func (s *Seen) Record(id string) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.when[id] = now
	s.queue = append(s.queue, entry{id: id, ts: now})
	s.evict(now)
}

// evict drops expired queue heads and, while over capacity, the oldest live
// entries. A re-recorded id leaves a stale position behind; the timestamp
// guard keeps that position from deleting the fresh entry.
func (s *Seen) evict(now time.Time) {
	cutoff := now.Add(-s.ttl)

	for len(s.queue) > 0 && (len(s.when) > s.capacity || s.queue[0].ts.Before(cutoff)) {
		head := s.queue[0]
		s.queue = s.queue[1:]

		if ts, ok := s.when[head.id]; ok && ts.Equal(head.ts) {
			delete(s.when, head.id)
		}
	}
}
