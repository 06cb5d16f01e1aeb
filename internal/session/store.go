package session

import (
	"context"
	"sync"
	"time"

	boterrors "github.com/savastore/whatsbot/internal/errors"
)

// Store serializes access to per-caller sessions. GetOrCreate acquires an
// exclusion scope for the caller id and returns a snapshot; the scope is held
// until Commit stores a replacement or Abort discards the turn. Distinct
// caller ids never contend with each other.
type Store interface {
	GetOrCreate(ctx context.Context, callerID string) (Session, error)
	Commit(ctx context.Context, callerID string, s Session) error
	Abort(ctx context.Context, callerID string) error
}

type entry struct {
	mu       sync.Mutex
	session  Session
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. Sessions idle longer than ttl
// are dropped lazily; when the map grows past maxSessions, the oldest idle
// sessions are evicted first. A zero ttl or maxSessions disables that bound.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]*entry
	ttl         time.Duration
	maxSessions int
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration, maxSessions int) *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]*entry),
		ttl:         ttl,
		maxSessions: maxSessions,
	}
}

// GetOrCreate locks the caller's session and returns a snapshot of it.
// Blocks until any in-flight turn for the same caller commits or aborts.
func (m *MemoryStore) GetOrCreate(_ context.Context, callerID string) (Session, error) {
	for {
		now := time.Now()

		m.mu.Lock()
		e, ok := m.entries[callerID]
		if ok && m.expired(e, now) && e.mu.TryLock() {
			delete(m.entries, callerID)
			e.mu.Unlock()
			ok = false
		}
		if !ok {
			m.evictLocked(now)
			e = &entry{session: New()}
			m.entries[callerID] = e
		}
		e.lastSeen = now
		m.mu.Unlock()

		e.mu.Lock()

		// The entry may have been evicted while we were blocked on its lock;
		// in that case it is no longer the one in the map, so start over.
		m.mu.Lock()
		current, ok := m.entries[callerID]
		m.mu.Unlock()
		if ok && current == e {
			return e.session.Clone(), nil
		}
		e.mu.Unlock()
	}
}

// Commit stores the replacement session and releases the caller's lock.
func (m *MemoryStore) Commit(_ context.Context, callerID string, s Session) error {
	m.mu.Lock()
	e, ok := m.entries[callerID]
	m.mu.Unlock()
	if !ok {
		return boterrors.ErrSessionNotFound
	}
	e.session = s.Clone()
	e.mu.Unlock()
	return nil
}

// Abort releases the caller's lock without committing, leaving the previously
// stored session untouched.
func (m *MemoryStore) Abort(_ context.Context, callerID string) error {
	m.mu.Lock()
	e, ok := m.entries[callerID]
	m.mu.Unlock()
	if !ok {
		return boterrors.ErrSessionNotFound
	}
	e.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl
}

// evictLocked drops expired sessions and, if the map is still at capacity,
// the oldest idle ones. Entries whose lock is held are in-flight and skipped.
// Caller must hold m.mu.
func (m *MemoryStore) evictLocked(now time.Time) {
	if m.ttl > 0 {
		for id, e := range m.entries {
			if m.expired(e, now) && e.mu.TryLock() {
				delete(m.entries, id)
				e.mu.Unlock()
			}
		}
	}
	if m.maxSessions <= 0 {
		return
	}
	for len(m.entries) >= m.maxSessions {
		oldestID := ""
		var oldest *entry
		for id, e := range m.entries {
			if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
				oldestID, oldest = id, e
			}
		}
		if oldest == nil || !oldest.mu.TryLock() {
			return
		}
		delete(m.entries, oldestID)
		oldest.mu.Unlock()
	}
}
