package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/database"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*SQLUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	db := database.Wrap(conn, database.DriverSQLite, logging.NewDiscardLogger(), 0)
	return NewSQLUserRepository(db, logging.NewDiscardLogger()), mock
}

func TestFindByEmailNormalizes(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, created_at FROM users WHERE email = ?")).
		WithArgs("boss@studio.it").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("01U", "boss@studio.it", "$2a$10$hash", "2026-10-01T08:00:00Z"))

	u, err := repo.FindByEmail(context.Background(), " Boss@Studio.it ")
	require.NoError(t, err)
	assert.Equal(t, "01U", u.ID)
	assert.Equal(t, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC), u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	_, err := repo.FindByEmail(context.Background(), "nobody@studio.it")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestStore(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("01U", "ops@studio.it", "hash", "2026-10-17T09:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Store(context.Background(), &user.User{ID: "01U", Email: "OPS@studio.it", PasswordHash: "hash", CreatedAt: created})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreDuplicateEmail(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("UNIQUE constraint failed: users.email"))

	err := repo.Store(context.Background(), &user.User{ID: "01U", Email: "ops@studio.it", PasswordHash: "hash"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}
