package flow

import (
	"sync"
	"time"

	"geonotes/core/metrics"
)

type entry struct {
	sess    Session
	updated time.Time
}

// Store keeps at most one pending Session per user. Put always replaces the
// existing entry (last-prompt-wins), so starting a new top-level command
// silently abandons a stale conversation.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	ttl     time.Duration
	now     func() time.Time

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewStore creates a Store. A positive ttl expires sessions idle for longer
// than ttl; zero keeps them pending indefinitely.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[int64]*entry),
		ttl:     ttl,
		now:     time.Now,
		locks:   make(map[int64]*sync.Mutex),
	}
}

// LockUser serializes message handling for a single user. It returns the
// unlock function; different users proceed independently.
func (s *Store) LockUser(userID int64) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Put registers sess as the user's pending session, replacing any other.
func (s *Store) Put(userID int64, sess Session) {
	s.mu.Lock()
	s.entries[userID] = &entry{sess: sess, updated: s.now()}
	metrics.ActiveSessions.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// Get returns the pending session for the user. An entry past its TTL is
// dropped and reported as absent.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		return Session{}, false
	}
	if s.ttl > 0 && s.now().Sub(e.updated) > s.ttl {
		delete(s.entries, userID)
		metrics.ActiveSessions.Set(float64(len(s.entries)))
		return Session{}, false
	}
	return e.sess, true
}

// Clear removes the user's pending session, if any.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	delete(s.entries, userID)
	metrics.ActiveSessions.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// Len reports the number of pending sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
