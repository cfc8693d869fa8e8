package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/email"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/metrics"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
)

const notifyTimeout = 15 * time.Second

// LeadService accepts contact submissions from visitors
type LeadService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	assembler   *lead.Assembler
	sessions    *manager.SessionManager
	notifier    email.Notifier
	broadcaster messaging.Broadcaster

	mu       sync.Mutex
	inFlight map[string]struct{}
	pending  sync.WaitGroup
}

// NewLeadService creates a new lead intake service
func NewLeadService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, repo lead.Repository,
	sessions *manager.SessionManager, notifier email.Notifier, broadcaster messaging.Broadcaster) *LeadService {
	if notifier == nil {
		notifier = email.NoopNotifier{}
	}
	return &LeadService{
		logger:      logger,
		perfTracker: perfTracker,
		assembler:   lead.NewAssembler(repo),
		sessions:    sessions,
		notifier:    notifier,
		broadcaster: broadcaster,
		inFlight:    make(map[string]struct{}),
	}
}

// Submit stores the form together with the session's profiling snapshot.
// A second call for the same session while one is pending fails with
// lead.ErrSubmissionInFlight. Notification and broadcast happen after the
// insert and never fail the submission.
func (s *LeadService) Submit(ctx context.Context, sessionID string, form lead.Form) (*lead.Submission, error) {
	marker := s.perfTracker.StartOperation("leads:submit", logging.MaskID(sessionID))
	defer marker.Complete()

	if !s.acquire(sessionID) {
		marker.SetError(lead.ErrSubmissionInFlight)
		metrics.LeadSubmissions.WithLabelValues(metrics.OutcomeInFlight).Inc()
		s.logger.Leads().Warn("Submission rejected, another is in flight", "sessionId", logging.MaskID(sessionID))
		return nil, lead.ErrSubmissionInFlight
	}
	defer s.release(sessionID)

	snap := s.sessions.Accumulator(ctx, sessionID).Snapshot()
	sub, err := s.assembler.Submit(ctx, form, &snap)
	if err != nil {
		marker.SetError(err)
		var verr *lead.ValidationError
		if errors.As(err, &verr) {
			metrics.LeadSubmissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
			for field := range verr.FieldErrors {
				metrics.LeadValidationFailures.WithLabelValues(field).Inc()
			}
			s.logger.Leads().Info("Submission failed validation", "fields", len(verr.FieldErrors))
			return nil, err
		}
		metrics.LeadSubmissions.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.logger.Leads().Error("Submission could not be stored", "error", err.Error(), "sessionId", logging.MaskID(sessionID))
		return nil, err
	}

	metrics.LeadSubmissions.WithLabelValues(metrics.OutcomeStored).Inc()
	s.logger.Leads().Info("Submission stored", "id", sub.ID, "profession", sub.Profession(), "email", logging.MaskEmail(sub.Email))

	if s.broadcaster != nil {
		s.broadcaster.LeadCreated(sub)
	}
	s.notify(ctx, sub)
	return sub, nil
}

// Wait blocks until pending notifications are sent, for shutdown and tests.
func (s *LeadService) Wait() {
	s.pending.Wait()
}

func (s *LeadService) notify(ctx context.Context, sub *lead.Submission) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyNewLead(nctx, sub); err != nil {
			s.logger.Leads().Warn("Lead notification failed", "id", sub.ID, "error", err.Error())
		}
	}()
}

func (s *LeadService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *LeadService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}
