// Package lead assembles contact-form submissions together with the visitor's
// profiling snapshot.
package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
)

// Status is the triage state of a submission.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusArchived  Status = "archived"

	// DefaultStatus applies to new submissions and to rows stored without a status.
	DefaultStatus = StatusNew
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusArchived}

// Sentinel errors returned by the assembler, the services and the repositories.
var (
	ErrStorage            = errors.New("lead storage failed")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrNotFound           = errors.New("submission not found")
	ErrInvalidStatus      = errors.New("invalid submission status")
)

// ParseStatus accepts any known status. Transitions between statuses are unconstrained.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Statuses {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Submission is a persisted lead. ID and CreatedAt are assigned by storage.
type Submission struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Company   *string             `json:"company"`
	Message   string              `json:"message"`
	Status    Status              `json:"status"`
	CreatedAt string              `json:"createdAt"`
	Context   *profiling.Snapshot `json:"context"`
}

// EffectiveStatus returns Status, or DefaultStatus when unset.
func (s Submission) EffectiveStatus() Status {
	if s.Status == "" {
		return DefaultStatus
	}
	return s.Status
}

// Profession returns the profession recorded in the context, if any.
func (s Submission) Profession() string {
	if s.Context == nil {
		return ""
	}
	return s.Context.Profession
}

// Repository is the storage collaborator for submissions.
type Repository interface {
	Insert(ctx context.Context, s *Submission) error
	FindAll(ctx context.Context) ([]Submission, error)
	FindByID(ctx context.Context, id string) (*Submission, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
