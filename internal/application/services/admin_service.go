package services

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/leadview"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/metrics"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
)

// AdminService backs the lead triage dashboard
type AdminService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	repo        lead.Repository
	broadcaster messaging.Broadcaster
}

// NewAdminService creates a new admin service
func NewAdminService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, repo lead.Repository,
	broadcaster messaging.Broadcaster) *AdminService {
	return &AdminService{
		logger:      logger,
		perfTracker: perfTracker,
		repo:        repo,
		broadcaster: broadcaster,
	}
}

// Dashboard is one filtered, sorted view plus statistics over every submission.
type Dashboard struct {
	Submissions []lead.Submission  `json:"submissions"`
	Total       int                `json:"total"`
	Query       leadview.Query     `json:"query"`
	Sort        leadview.SortState `json:"sort"`
	Stats       leadview.Stats     `json:"stats"`
	Professions []string           `json:"professions"`
}

// Submissions loads every submission and derives the requested view.
func (s *AdminService) Submissions(ctx context.Context, q leadview.Query, sort leadview.SortState) (*Dashboard, error) {
	marker := s.perfTracker.StartOperation("admin:list", "admin")
	defer marker.Complete()

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("%w: %w", lead.ErrStorage, err)
	}
	view := leadview.Apply(all, q, sort)
	marker.AddMetadata("rows", len(view))
	return &Dashboard{
		Submissions: view,
		Total:       len(all),
		Query:       q,
		Sort:        sort,
		Stats:       leadview.ComputeStats(all),
		Professions: professionsOf(all),
	}, nil
}

// Stats summarises every stored submission.
func (s *AdminService) Stats(ctx context.Context) (leadview.Stats, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return leadview.Stats{}, fmt.Errorf("%w: %w", lead.ErrStorage, err)
	}
	return leadview.ComputeStats(all), nil
}

// UpdateStatus sets a submission's status. Any known status may follow any other.
func (s *AdminService) UpdateStatus(ctx context.Context, adminEmail, id, rawStatus string) (lead.Status, error) {
	marker := s.perfTracker.StartOperation("admin:update_status", logging.MaskEmail(adminEmail))
	defer marker.Complete()

	status, err := lead.ParseStatus(rawStatus)
	if err != nil {
		marker.SetError(err)
		return "", err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		marker.SetError(err)
		s.logger.Leads().Error("Status update failed", "id", id, "error", err.Error())
		return "", err
	}

	metrics.LeadStatusUpdates.WithLabelValues(string(status)).Inc()
	s.logger.Leads().Info("Submission status updated", "id", id, "status", status, "admin", logging.MaskEmail(adminEmail))
	if s.broadcaster != nil {
		s.broadcaster.StatusUpdated(id, status)
	}
	return status, nil
}

func professionsOf(list []lead.Submission) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range list {
		if p := s.Profession(); p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
