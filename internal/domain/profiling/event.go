package profiling

import (
	"context"
	"errors"
	"fmt"

	"github.com/AtRiskMedia/praxis/internal/domain/roi"
)

// EventType names a visitor interaction.
type EventType string

const (
	EventProfessionSelected EventType = "profession_selected"
	EventCalculatorUpdated  EventType = "calculator_updated"
	EventDemoViewed         EventType = "demo_viewed"
	EventDemoProgress       EventType = "demo_progress"
	EventDemoCompleted      EventType = "demo_completed"
	EventDemoTime           EventType = "demo_time"
)

// Errors reported by Validate and Apply.
var (
	ErrUnknownEvent = errors.New("unknown profiling event")
	ErrInvalidEvent = errors.New("invalid profiling event")
)

// Event is one discrete visitor interaction.
type Event struct {
	Type       EventType `json:"type"`
	Profession string    `json:"profession,omitempty"`
	Demo       string    `json:"demo,omitempty"`
	Progress   int       `json:"progress,omitempty"`
	DurationMs int64     `json:"durationMs,omitempty"`

	Clients               *int             `json:"clients,omitempty"`
	WeeklyHours           *float64         `json:"weeklyHours,omitempty"`
	EstimatedSavingsHours *float64         `json:"estimatedSavingsHours,omitempty"`
	EstimatedSavingsEur   *float64         `json:"estimatedSavingsEur,omitempty"`
	SavingsBreakdown      []roi.Allocation `json:"savingsBreakdown,omitempty"`
}

// Validate checks the fields e.Type requires without touching any state.
func (e Event) Validate() error {
	switch {
	case e.Type == EventProfessionSelected:
		if e.Profession == "" {
			return fmt.Errorf("%w: %s needs a profession", ErrInvalidEvent, e.Type)
		}
	case e.Type == EventCalculatorUpdated:
	case e.Type.demoScoped():
		if e.Demo == "" {
			return fmt.Errorf("%w: %s needs a demo", ErrInvalidEvent, e.Type)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return nil
}

// Apply folds e into the accumulator. An invalid event changes nothing.
func (a *Accumulator) Apply(ctx context.Context, e Event) (Snapshot, error) {
	if err := e.Validate(); err != nil {
		return a.Snapshot(), err
	}
	switch e.Type {
	case EventProfessionSelected:
		return a.Update(ctx, Partial{Profession: &e.Profession}), nil
	case EventCalculatorUpdated:
		p := Partial{
			Clients:               e.Clients,
			WeeklyHours:           e.WeeklyHours,
			EstimatedSavingsHours: e.EstimatedSavingsHours,
			EstimatedSavingsEur:   e.EstimatedSavingsEur,
			SavingsBreakdown:      e.SavingsBreakdown,
		}
		if e.Profession != "" {
			p.Profession = &e.Profession
		}
		return a.Update(ctx, p), nil
	case EventDemoViewed:
		return a.AddDemoViewed(ctx, e.Demo), nil
	case EventDemoCompleted:
		return a.AddDemoCompleted(ctx, e.Demo), nil
	case EventDemoProgress:
		return a.UpdateDemoProgress(ctx, e.Demo, e.Progress), nil
	default:
		return a.AddDemoTime(ctx, e.Demo, e.DurationMs), nil
	}
}

func (t EventType) demoScoped() bool {
	switch t {
	case EventDemoViewed, EventDemoCompleted, EventDemoProgress, EventDemoTime:
		return true
	}
	return false
}
