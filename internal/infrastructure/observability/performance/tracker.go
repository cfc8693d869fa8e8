package performance

import (
	"sync"
	"time"
)

// Tracker keeps a bounded window of completed markers and reports on them
type Tracker struct {
	recent     []*Marker
	next       int
	filled     bool
	mu         sync.RWMutex
	config     *TrackerConfig
	onComplete []func(*Marker)
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers    int           `json:"maxMarkers"`    // Size of the completed-marker window
	SlowThreshold time.Duration `json:"slowThreshold"` // Operations above this count as slow
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:    2000,
		SlowThreshold: 500 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	if config.MaxMarkers <= 0 {
		config.MaxMarkers = DefaultTrackerConfig().MaxMarkers
	}
	return &Tracker{
		recent: make([]*Marker, config.MaxMarkers),
		config: config,
	}
}

// OnComplete registers a callback invoked for every completed marker.
// Callbacks must be registered before the tracker is shared between goroutines.
func (t *Tracker) OnComplete(fn func(*Marker)) {
	t.onComplete = append(t.onComplete, fn)
}

// StartOperation creates a new performance marker for an operation
func (t *Tracker) StartOperation(operation, scope string) *Marker {
	return &Marker{
		Operation:  operation,
		Scope:      scope,
		StartTime:  time.Now(),
		Metadata:   make(map[string]any),
		Success:    true,
		onComplete: t.record,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	t.recent[t.next] = m
	t.next = (t.next + 1) % len(t.recent)
	if t.next == 0 {
		t.filled = true
	}
	t.mu.Unlock()

	for _, fn := range t.onComplete {
		fn(m)
	}
}

// IsSlow reports whether m took longer than the configured threshold.
func (t *Tracker) IsSlow(m *Marker) bool {
	return m.Duration > t.config.SlowThreshold
}

// Recent returns the completed markers still inside the window, oldest first
func (t *Tracker) Recent() []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Marker
	if t.filled {
		for _, m := range t.recent[t.next:] {
			out = append(out, *m)
		}
	}
	for _, m := range t.recent[:t.next] {
		out = append(out, *m)
	}
	return out
}

// TakeSnapshot summarises the markers inside the window
func (t *Tracker) TakeSnapshot() *Snapshot {
	markers := t.Recent()
	snap := &Snapshot{
		Timestamp:   time.Now(),
		ByOperation: make(map[string]OperationSum),
	}

	var total time.Duration
	for _, m := range markers {
		snap.CompletedOperations++
		total += m.Duration
		sum := snap.ByOperation[m.Operation]
		sum.Count++
		if !m.Success {
			snap.FailedOperations++
			sum.Failures++
		}
		if t.IsSlow(&m) {
			snap.SlowOperations++
		}
		if m.Duration > sum.MaxDuration {
			sum.MaxDuration = m.Duration
		}
		snap.ByOperation[m.Operation] = sum
	}

	if snap.CompletedOperations > 0 {
		snap.AverageDuration = total / time.Duration(snap.CompletedOperations)
	}
	snap.OverallHealth = t.health(snap)
	return snap
}

func (t *Tracker) health(s *Snapshot) HealthStatus {
	if s.CompletedOperations == 0 {
		return HealthUnknown
	}
	failRatio := float64(s.FailedOperations) / float64(s.CompletedOperations)
	slowRatio := float64(s.SlowOperations) / float64(s.CompletedOperations)
	switch {
	case failRatio > 0.25 || slowRatio > 0.5:
		return HealthUnhealthy
	case failRatio > 0.05 || slowRatio > 0.1:
		return HealthDegraded
	default:
		return HealthHealthy
	}
}
