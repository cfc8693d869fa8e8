// Package profiling accumulates what a visitor did on the site so it can be
// attached to a lead when they get in touch.
package profiling

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/AtRiskMedia/praxis/internal/domain/roi"
)

// Snapshot is the serialisable profiling state of one visitor session.
type Snapshot struct {
	Profession            string           `json:"profession,omitempty"`
	Clients               *int             `json:"clients,omitempty"`
	WeeklyHours           *float64         `json:"weeklyHours,omitempty"`
	EstimatedSavingsHours *float64         `json:"estimatedSavingsHours,omitempty"`
	EstimatedSavingsEur   *float64         `json:"estimatedSavingsEur,omitempty"`
	SavingsBreakdown      []roi.Allocation `json:"savingsBreakdown,omitempty"`
	DemosViewed           []string         `json:"demosViewed"`
	DemosCompleted        []string         `json:"demosCompleted"`
	DemoMaxProgress       map[string]int   `json:"demoMaxProgress"`
	DemoTimeSpentMs       map[string]int64 `json:"demoTimeSpentMs"`

	// completedKnown is false when a decoded document carried no demosCompleted.
	completedKnown bool
}

// NewSnapshot returns an empty snapshot with initialised collections.
func NewSnapshot() Snapshot {
	return Snapshot{
		DemosViewed:     []string{},
		DemosCompleted:  []string{},
		DemoMaxProgress: map[string]int{},
		DemoTimeSpentMs: map[string]int64{},
		completedKnown:  true,
	}
}

// Decode parses a serialised snapshot; collections missing from data come back empty.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return NewSnapshot(), fmt.Errorf("failed to decode profiling snapshot: %w", err)
	}
	s.normalize()
	return s, nil
}

// UnmarshalJSON also accepts the legacy "monthlySavings" key written by
// earlier calculator versions in place of estimatedSavingsEur.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	aux := struct {
		*plain
		DemosCompleted json.RawMessage `json:"demosCompleted"`
		MonthlySavings *float64        `json:"monthlySavings,omitempty"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.completedKnown = len(aux.DemosCompleted) > 0 && string(aux.DemosCompleted) != "null"
	if s.completedKnown {
		if err := json.Unmarshal(aux.DemosCompleted, &s.DemosCompleted); err != nil {
			return err
		}
	}
	if s.EstimatedSavingsEur == nil && aux.MonthlySavings != nil {
		s.EstimatedSavingsEur = aux.MonthlySavings
	}
	s.normalize()
	return nil
}

// Encode serialises the snapshot.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Clients = clonePtr(s.Clients)
	out.WeeklyHours = clonePtr(s.WeeklyHours)
	out.EstimatedSavingsHours = clonePtr(s.EstimatedSavingsHours)
	out.EstimatedSavingsEur = clonePtr(s.EstimatedSavingsEur)
	out.SavingsBreakdown = slices.Clone(s.SavingsBreakdown)
	out.DemosViewed = slices.Clone(s.DemosViewed)
	out.DemosCompleted = slices.Clone(s.DemosCompleted)
	out.DemoMaxProgress = make(map[string]int, len(s.DemoMaxProgress))
	for k, v := range s.DemoMaxProgress {
		out.DemoMaxProgress[k] = v
	}
	out.DemoTimeSpentMs = make(map[string]int64, len(s.DemoTimeSpentMs))
	for k, v := range s.DemoTimeSpentMs {
		out.DemoTimeSpentMs[k] = v
	}
	out.normalize()
	return out
}

// CompletedDemoCount is the number of distinct demos the visitor finished.
func (s Snapshot) CompletedDemoCount() int {
	return len(s.DemosCompleted)
}

// CompletedDemosKnown reports whether the snapshot records completed demos at
// all. Snapshots built here always do; stored documents without the key do not.
func (s Snapshot) CompletedDemosKnown() bool {
	return s.completedKnown
}

// HasViewed reports whether slug is in DemosViewed.
func (s Snapshot) HasViewed(slug string) bool {
	return slices.Contains(s.DemosViewed, slug)
}

func (s *Snapshot) normalize() {
	if s.DemosViewed == nil {
		s.DemosViewed = []string{}
	}
	if s.DemosCompleted == nil {
		s.DemosCompleted = []string{}
	}
	if s.DemoMaxProgress == nil {
		s.DemoMaxProgress = map[string]int{}
	}
	if s.DemoTimeSpentMs == nil {
		s.DemoTimeSpentMs = map[string]int64{}
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
