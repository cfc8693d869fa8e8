package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/praxis/internal/domain/demo"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/domain/roi"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/metrics"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidPayload wraps schema violations of posted profiling events.
var ErrInvalidPayload = errors.New("invalid profiling payload")

const eventSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "event": {
      "type": "object",
      "required": ["type"],
      "additionalProperties": false,
      "allOf": [
        {
          "if": {"properties": {"type": {"enum": ["demo_viewed", "demo_progress", "demo_completed", "demo_time"]}}},
          "then": {"required": ["demo"]}
        },
        {
          "if": {"properties": {"type": {"const": "profession_selected"}}},
          "then": {"required": ["profession"], "properties": {"profession": {"minLength": 1}}}
        }
      ],
      "properties": {
        "type": {"enum": ["profession_selected", "calculator_updated", "demo_viewed", "demo_progress", "demo_completed", "demo_time"]},
        "profession": {"type": "string", "maxLength": 64},
        "demo": {"type": "string", "pattern": "^[a-z0-9-]{1,64}$"},
        "progress": {"type": "integer", "minimum": 0, "maximum": 100},
        "durationMs": {"type": "integer", "minimum": 0, "maximum": 86400000},
        "clients": {"type": "integer", "minimum": 0},
        "weeklyHours": {"type": "number", "minimum": 0, "maximum": 168}
      }
    }
  },
  "oneOf": [
    {"$ref": "#/definitions/event"},
    {"type": "array", "minItems": 1, "maxItems": 50, "items": {"$ref": "#/definitions/event"}}
  ]
}`

// ProfilingService applies visitor events to session accumulators
type ProfilingService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	sessions    *manager.SessionManager
	calculator  *roi.Calculator
	demos       *demo.Catalog
	schema      *gojsonschema.Schema
}

// NewProfilingService creates a new profiling service
func NewProfilingService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, sessions *manager.SessionManager,
	calculator *roi.Calculator, demos *demo.Catalog) (*ProfilingService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile profiling event schema: %w", err)
	}
	return &ProfilingService{
		logger:      logger,
		perfTracker: perfTracker,
		sessions:    sessions,
		calculator:  calculator,
		demos:       demos,
		schema:      schema,
	}, nil
}

// Accumulator returns the live accumulator for sessionID.
func (s *ProfilingService) Accumulator(ctx context.Context, sessionID string) *profiling.Accumulator {
	return s.sessions.Accumulator(ctx, sessionID)
}

// Snapshot returns a copy of the session's profiling state.
func (s *ProfilingService) Snapshot(ctx context.Context, sessionID string) profiling.Snapshot {
	return s.sessions.Accumulator(ctx, sessionID).Snapshot()
}

// ApplyPayload validates a JSON event (or array of events) and folds it into
// the session. Nothing is applied when any event is invalid.
func (s *ProfilingService) ApplyPayload(ctx context.Context, sessionID string, payload []byte) (profiling.Snapshot, error) {
	marker := s.perfTracker.StartOperation("profiling:apply", logging.MaskID(sessionID))
	defer marker.Complete()

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		marker.SetError(err)
		return profiling.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		err := fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
		marker.SetError(err)
		return profiling.Snapshot{}, err
	}

	events, err := decodeEvents(payload)
	if err != nil {
		marker.SetError(err)
		return profiling.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			marker.SetError(err)
			return profiling.Snapshot{}, err
		}
		if e.Demo != "" {
			if _, err := s.demos.Lookup(e.Demo); err != nil {
				marker.SetError(err)
				return profiling.Snapshot{}, fmt.Errorf("%w: %w", profiling.ErrInvalidEvent, err)
			}
		}
	}

	acc := s.sessions.Accumulator(ctx, sessionID)
	var snap profiling.Snapshot
	for _, e := range events {
		snap, err = s.apply(ctx, acc, e)
		if err != nil {
			marker.SetError(err)
			return snap, err
		}
		metrics.ProfilingEvents.WithLabelValues(string(e.Type)).Inc()
	}
	marker.AddMetadata("events", len(events))
	return snap, nil
}

// RecordDemoView marks slug as viewed for the session.
func (s *ProfilingService) RecordDemoView(ctx context.Context, sessionID, slug string) profiling.Snapshot {
	metrics.ProfilingEvents.WithLabelValues(string(profiling.EventDemoViewed)).Inc()
	return s.sessions.Accumulator(ctx, sessionID).AddDemoViewed(ctx, slug)
}

// Calculator updates carrying inputs are recomputed here so stored estimates
// never come from the client.
func (s *ProfilingService) apply(ctx context.Context, acc *profiling.Accumulator, e profiling.Event) (profiling.Snapshot, error) {
	if e.Type == profiling.EventCalculatorUpdated && e.WeeklyHours != nil {
		in := roi.Input{WeeklyAdminHours: *e.WeeklyHours, Profession: e.Profession}
		if in.Profession == "" {
			in.Profession = acc.Snapshot().Profession
		}
		if e.Clients != nil {
			in.ClientCount = *e.Clients
		}
		est := s.calculator.Estimate(in, "it")
		return acc.Update(ctx, PartialFromEstimate(est)), nil
	}
	e.EstimatedSavingsHours = nil
	e.EstimatedSavingsEur = nil
	e.SavingsBreakdown = nil
	return acc.Apply(ctx, e)
}

func decodeEvents(payload []byte) ([]profiling.Event, error) {
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "[") {
		var events []profiling.Event
		if err := json.Unmarshal(payload, &events); err != nil {
			return nil, err
		}
		return events, nil
	}
	var e profiling.Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return []profiling.Event{e}, nil
}
