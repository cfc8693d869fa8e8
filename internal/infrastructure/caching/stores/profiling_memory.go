// Package stores provides the session-scoped profiling stores.
package stores

import (
	"context"
	"sync"
	"time"

	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryProfilingStore keeps serialised snapshots in process until their TTL
// passes. Expired entries are dropped on read and swept on write.
type MemoryProfilingStore struct {
	entries map[string]memoryEntry
	ttl     time.Duration
	mu      sync.RWMutex
	logger  *logging.ChanneledLogger
	now     func() time.Time
	writes  int
}

const sweepEvery = 256

// NewMemoryProfilingStore creates a store whose entries live for ttl after their last write.
func NewMemoryProfilingStore(ttl time.Duration, logger *logging.ChanneledLogger) *MemoryProfilingStore {
	if logger != nil {
		logger.Profiling().Info("Initializing in-memory profiling store", "ttl", ttl)
	}
	return &MemoryProfilingStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *MemoryProfilingStore) Save(_ context.Context, sessionID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[sessionID] = memoryEntry{data: append([]byte(nil), data...), expires: now.Add(s.ttl)}
	s.writes++
	if s.writes%sweepEvery == 0 {
		s.sweepLocked(now)
	}
	return nil
}

func (s *MemoryProfilingStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expires) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return nil, nil
	}
	return append([]byte(nil), e.data...), nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryProfilingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryProfilingStore) sweepLocked(now time.Time) {
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 && s.logger != nil {
		s.logger.Profiling().Debug("Expired profiling snapshots removed", "count", removed)
	}
}
