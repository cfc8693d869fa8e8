// Package lead provides the SQL implementation of lead.Repository over the
// contact_submissions table.
package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/database"
	"github.com/oklog/ulid/v2"
)

const submissionColumns = `id, name, email, company, message, status, created_at, context`

// SQLSubmissionRepository is the SQL-based implementation of lead.Repository.
type SQLSubmissionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewSQLSubmissionRepository creates a new instance of the repository.
func NewSQLSubmissionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSubmissionRepository {
	return &SQLSubmissionRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Insert assigns ID and CreatedAt and stores s.
func (r *SQLSubmissionRepository) Insert(ctx context.Context, s *lead.Submission) error {
	const query = `INSERT INTO contact_submissions (` + submissionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var contextJSON sql.NullString
	if s.Context != nil {
		data, err := s.Context.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode submission context: %w", err)
		}
		contextJSON = sql.NullString{String: string(data), Valid: true}
	}
	status := s.Status
	if status == "" {
		status = lead.DefaultStatus
	}

	id := ulid.Make().String()
	createdAt := r.now().Format(time.RFC3339)

	r.logger.Database().Debug("Executing submission insert", "id", id)
	if _, err := r.db.ExecContext(ctx, query,
		id, s.Name, s.Email, nullable(s.Company), s.Message, string(status), createdAt, contextJSON,
	); err != nil {
		r.logger.Database().Error("Failed to insert submission", "error", err.Error(), "id", id)
		return err
	}

	s.ID = id
	s.CreatedAt = createdAt
	s.Status = status
	r.logger.Database().Info("Submission stored", "id", id)
	return nil
}

// FindAll returns every submission, newest first.
func (r *SQLSubmissionRepository) FindAll(ctx context.Context) ([]lead.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM contact_submissions ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Failed to query submissions", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	out := []lead.Submission{}
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Database().Debug("Submissions loaded", "count", len(out))
	return out, nil
}

// FindByID returns lead.ErrNotFound when no row matches.
func (r *SQLSubmissionRepository) FindByID(ctx context.Context, id string) (*lead.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM contact_submissions WHERE id = ?`

	s, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", lead.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Database().Error("Failed to load submission", "error", err.Error(), "id", id)
		return nil, err
	}
	return s, nil
}

// UpdateStatus overwrites the status; concurrent edits are last-write-wins.
func (r *SQLSubmissionRepository) UpdateStatus(ctx context.Context, id string, status lead.Status) error {
	const query = `UPDATE contact_submissions SET status = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		r.logger.Database().Error("Failed to update submission status", "error", err.Error(), "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", lead.ErrNotFound, id)
	}
	r.logger.Database().Info("Submission status updated", "id", id, "status", status)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLSubmissionRepository) scan(row scanner) (*lead.Submission, error) {
	var (
		s           lead.Submission
		company     sql.NullString
		status      sql.NullString
		contextJSON sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &company, &s.Message, &status, &s.CreatedAt, &contextJSON); err != nil {
		return nil, err
	}
	if company.Valid {
		c := company.String
		s.Company = &c
	}
	s.Status = lead.Status(status.String)
	if contextJSON.Valid && contextJSON.String != "" {
		snap, err := profiling.Decode([]byte(contextJSON.String))
		if err != nil {
			// A damaged context must not hide the lead itself.
			r.logger.Database().Warn("Discarding unreadable submission context", "id", s.ID, "error", err.Error())
		} else {
			s.Context = &snap
		}
	}
	return &s, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ lead.Repository = (*SQLSubmissionRepository)(nil)

