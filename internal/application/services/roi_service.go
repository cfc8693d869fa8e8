package services

import (
	"context"

	"github.com/AtRiskMedia/praxis/internal/domain/profession"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/domain/roi"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/metrics"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
)

// ROIService serves the profession catalogue and calculator estimates
type ROIService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	registry    *profession.Registry
	calculator  *roi.Calculator
}

// NewROIService creates a new calculator service over registry
func NewROIService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, registry *profession.Registry) *ROIService {
	return &ROIService{
		logger:      logger,
		perfTracker: perfTracker,
		registry:    registry,
		calculator:  roi.NewCalculator(registry),
	}
}

// Professions lists the catalogue in display order.
func (s *ROIService) Professions() []profession.Profession {
	return s.registry.All()
}

// Profession looks up one profession; unknown slugs wrap profession.ErrNotFound.
func (s *ROIService) Profession(slug string) (profession.Profession, error) {
	return s.registry.Lookup(slug)
}

// Calculator exposes the pure calculator.
func (s *ROIService) Calculator() *roi.Calculator {
	return s.calculator
}

// Estimate computes an estimate and, when acc is given, records inputs and
// outputs in the visitor's snapshot.
func (s *ROIService) Estimate(ctx context.Context, in roi.Input, locale string, acc *profiling.Accumulator) roi.Estimate {
	marker := s.perfTracker.StartOperation("roi:estimate", "visitor")
	defer marker.Complete()

	est := s.calculator.Estimate(in, locale)
	label := in.Profession
	if !s.registry.Has(label) {
		label = "unknown"
	}
	metrics.ROICalculations.WithLabelValues(label).Inc()

	if acc != nil {
		acc.Update(ctx, PartialFromEstimate(est))
		metrics.ProfilingEvents.WithLabelValues(string(profiling.EventCalculatorUpdated)).Inc()
	}
	s.logger.Profiling().Debug("ROI estimate computed", "profession", in.Profession, "hours", in.WeeklyAdminHours)
	return est
}

// PartialFromEstimate maps an estimate onto the snapshot fields it fills.
func PartialFromEstimate(est roi.Estimate) profiling.Partial {
	prof := est.Input.Profession
	clients := est.Input.ClientCount
	hours := est.Input.WeeklyAdminHours
	saved := est.Result.HoursSavedPerWeek
	eur := est.Result.MonthlySavings
	return profiling.Partial{
		Profession:            &prof,
		Clients:               &clients,
		WeeklyHours:           &hours,
		EstimatedSavingsHours: &saved,
		EstimatedSavingsEur:   &eur,
		SavingsBreakdown:      est.Breakdown,
	}
}
