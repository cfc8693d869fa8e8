// Package manager keeps the live profiling accumulators of visitor sessions.
package manager

import (
	"context"
	"sync"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
)

type sessionEntry struct {
	acc      *profiling.Accumulator
	lastSeen time.Time
}

// SessionManager maps session ids to accumulators. Idle entries are evicted
// lazily during lookups; their state survives in the backing store.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	store    profiling.Store
	ttl      time.Duration
	max      int
	logger   *logging.ChanneledLogger
	now      func() time.Time
	lookups  int

	onPersistError func(sessionID string, err error)
}

const evictEvery = 128

// NewSessionManager creates a manager over store. max bounds the number of
// in-process accumulators; 0 means unbounded.
func NewSessionManager(store profiling.Store, ttl time.Duration, max int, logger *logging.ChanneledLogger) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*sessionEntry),
		store:    store,
		ttl:      ttl,
		max:      max,
		logger:   logger,
		now:      time.Now,
	}
	m.onPersistError = func(sessionID string, err error) {
		logger.Profiling().Warn("Profiling snapshot not persisted", "sessionId", logging.MaskID(sessionID), "error", err.Error())
	}
	return m
}

// OnPersistError adds a hook run whenever a snapshot write fails.
func (m *SessionManager) OnPersistError(fn func(sessionID string, err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.onPersistError
	m.onPersistError = func(sessionID string, err error) {
		prev(sessionID, err)
		fn(sessionID, err)
	}
}

// Accumulator returns the live accumulator for sessionID, resuming it from the
// store when it is not held in process.
func (m *SessionManager) Accumulator(ctx context.Context, sessionID string) *profiling.Accumulator {
	m.mu.Lock()
	now := m.now()
	m.lookups++
	if e, ok := m.sessions[sessionID]; ok && now.Sub(e.lastSeen) <= m.ttl {
		e.lastSeen = now
		m.mu.Unlock()
		return e.acc
	}
	if m.lookups%evictEvery == 0 || (m.max > 0 && len(m.sessions) >= m.max) {
		m.evictLocked(now)
	}
	hook := m.onPersistError
	m.mu.Unlock()

	// Resume outside the lock; the store may be remote.
	acc := profiling.Resume(ctx, sessionID, m.store)
	acc.OnPersistError = hook

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[sessionID]; ok && now.Sub(e.lastSeen) <= m.ttl {
		e.lastSeen = now
		return e.acc
	}
	m.sessions[sessionID] = &sessionEntry{acc: acc, lastSeen: now}
	return acc
}

// Len is the number of accumulators held in process.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) evictLocked(now time.Time) {
	evicted := 0
	var oldestID string
	var oldest time.Time
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
			evicted++
			continue
		}
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if m.max > 0 && len(m.sessions) >= m.max && oldestID != "" {
		delete(m.sessions, oldestID)
		evicted++
	}
	if evicted > 0 {
		m.logger.Profiling().Debug("Idle sessions evicted", "count", evicted, "remaining", len(m.sessions))
	}
}

// TTL is the idle lifetime of a session, also used for the session cookie.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}
