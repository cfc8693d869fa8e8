package profiling

import (
	"context"
	"slices"
	"sync"

	"github.com/AtRiskMedia/praxis/internal/domain/roi"
)

// Store persists serialised snapshots per session.
type Store interface {
	Save(ctx context.Context, sessionID string, data []byte) error
	Load(ctx context.Context, sessionID string) ([]byte, error)
}

// Partial carries the simple fields merged by Update; nil fields are left untouched.
type Partial struct {
	Profession            *string
	Clients               *int
	WeeklyHours           *float64
	EstimatedSavingsHours *float64
	EstimatedSavingsEur   *float64
	SavingsBreakdown      []roi.Allocation
}

// Accumulator owns one session's snapshot. Every mutation is written through
// to the store; store failures are reported to OnPersistError and otherwise ignored.
// Saves are applied in mutation order: a snapshot older than the last one
// written is never saved.
type Accumulator struct {
	mu        sync.Mutex
	sessionID string
	snap      Snapshot
	store     Store
	seq       uint64

	saveMu  sync.Mutex
	savedAt uint64

	OnPersistError func(sessionID string, err error)
}

// NewAccumulator starts an empty accumulator for sessionID.
func NewAccumulator(sessionID string, store Store) *Accumulator {
	return &Accumulator{sessionID: sessionID, snap: NewSnapshot(), store: store}
}

// Resume reads the session's snapshot from store. Any read or parse failure
// yields an empty accumulator.
func Resume(ctx context.Context, sessionID string, store Store) *Accumulator {
	acc := NewAccumulator(sessionID, store)
	if store == nil {
		return acc
	}
	data, err := store.Load(ctx, sessionID)
	if err != nil || len(data) == 0 {
		return acc
	}
	snap, err := Decode(data)
	if err != nil {
		return acc
	}
	acc.snap = snap
	return acc
}

// SessionID returns the owning session.
func (a *Accumulator) SessionID() string { return a.sessionID }

// Snapshot returns a deep copy of the current state.
func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.Clone()
}

// Update shallow-merges the non-nil fields of p.
func (a *Accumulator) Update(ctx context.Context, p Partial) Snapshot {
	return a.mutate(ctx, func(s *Snapshot) {
		if p.Profession != nil {
			s.Profession = *p.Profession
		}
		if p.Clients != nil {
			s.Clients = clonePtr(p.Clients)
		}
		if p.WeeklyHours != nil {
			s.WeeklyHours = clonePtr(p.WeeklyHours)
		}
		if p.EstimatedSavingsHours != nil {
			s.EstimatedSavingsHours = clonePtr(p.EstimatedSavingsHours)
		}
		if p.EstimatedSavingsEur != nil {
			s.EstimatedSavingsEur = clonePtr(p.EstimatedSavingsEur)
		}
		if p.SavingsBreakdown != nil {
			s.SavingsBreakdown = slices.Clone(p.SavingsBreakdown)
		}
	})
}

// AddDemoViewed records slug as viewed. Repeated calls are no-ops.
func (a *Accumulator) AddDemoViewed(ctx context.Context, slug string) Snapshot {
	return a.mutate(ctx, func(s *Snapshot) {
		s.DemosViewed = addToSet(s.DemosViewed, slug)
	})
}

// AddDemoCompleted records slug as completed. Repeated calls are no-ops.
func (a *Accumulator) AddDemoCompleted(ctx context.Context, slug string) Snapshot {
	return a.mutate(ctx, func(s *Snapshot) {
		s.DemosCompleted = addToSet(s.DemosCompleted, slug)
	})
}

// UpdateDemoProgress keeps the highest percentage seen for slug, clamped to 0..100.
func (a *Accumulator) UpdateDemoProgress(ctx context.Context, slug string, pct int) Snapshot {
	pct = min(max(pct, 0), 100)
	return a.mutate(ctx, func(s *Snapshot) {
		if cur, ok := s.DemoMaxProgress[slug]; !ok || pct > cur {
			s.DemoMaxProgress[slug] = pct
		}
	})
}

// AddDemoTime adds ms to the time spent on slug. Negative durations are ignored.
func (a *Accumulator) AddDemoTime(ctx context.Context, slug string, ms int64) Snapshot {
	if ms < 0 {
		ms = 0
	}
	return a.mutate(ctx, func(s *Snapshot) {
		s.DemoTimeSpentMs[slug] += ms
	})
}

func (a *Accumulator) mutate(ctx context.Context, fn func(*Snapshot)) Snapshot {
	a.mu.Lock()
	fn(&a.snap)
	a.snap.completedKnown = true
	a.seq++
	seq := a.seq
	out := a.snap.Clone()
	a.mu.Unlock()

	a.persist(ctx, seq, out)
	return out
}

func (a *Accumulator) persist(ctx context.Context, seq uint64, snap Snapshot) {
	if a.store == nil {
		return
	}
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	if seq <= a.savedAt {
		return
	}
	a.savedAt = seq
	data, err := snap.Encode()
	if err == nil {
		err = a.store.Save(ctx, a.sessionID, data)
	}
	if err != nil && a.OnPersistError != nil {
		a.OnPersistError(a.sessionID, err)
	}
}

func addToSet(set []string, slug string) []string {
	if slices.Contains(set, slug) {
		return set
	}
	return append(set, slug)
}
