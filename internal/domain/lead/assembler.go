package lead

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
)

// BuildSubmission validates f and packages it with snapshot. Nothing is stored.
func BuildSubmission(f Form, snapshot *profiling.Snapshot) (*Submission, error) {
	if err := ValidateForm(f); err != nil {
		return nil, err
	}
	n := f.Normalized()
	s := &Submission{
		Name:    n.Name,
		Email:   n.Email,
		Message: n.Message,
		Status:  DefaultStatus,
	}
	if n.Company != "" {
		company := n.Company
		s.Company = &company
	}
	if snapshot != nil {
		snap := snapshot.Clone()
		s.Context = &snap
	}
	return s, nil
}

// Assembler turns form posts into stored submissions.
type Assembler struct {
	repo Repository
}

func NewAssembler(repo Repository) *Assembler {
	return &Assembler{repo: repo}
}

// Submit builds and inserts a submission. Validation failures make no storage
// call; storage failures are wrapped in ErrStorage. There is no retry.
func (a *Assembler) Submit(ctx context.Context, f Form, snapshot *profiling.Snapshot) (*Submission, error) {
	s, err := BuildSubmission(f, snapshot)
	if err != nil {
		return nil, err
	}
	if err := a.repo.Insert(ctx, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return s, nil
}
