// Package user provides the SQL implementation of user.Repository.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/database"
)

// SQLUserRepository is the SQL-based implementation of user.Repository.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{db: db, logger: logger}
}

// FindByEmail returns user.ErrNotFound when no account has email.
func (r *SQLUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`

	email = user.NormalizeEmail(email)
	r.logger.Database().Debug("Loading user by email", "email", logging.MaskEmail(email))

	var (
		u         user.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		r.logger.Database().Error("Failed to load user by email", "error", err.Error())
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		u.CreatedAt = t
	}
	return &u, nil
}

// Store inserts a new user. A duplicate email yields user.ErrEmailTaken.
func (r *SQLUserRepository) Store(ctx context.Context, u *user.User) error {
	const query = `INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = user.NormalizeEmail(u.Email)

	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", user.ErrEmailTaken, u.Email)
		}
		r.logger.Database().Error("Failed to insert user", "error", err.Error())
		return err
	}
	r.logger.Database().Info("User stored", "id", u.ID)
	return nil
}

// Drivers disagree on error types; the message is the common ground.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

var _ user.Repository = (*SQLUserRepository)(nil)
