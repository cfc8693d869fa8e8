package lead

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/database"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func newRepo(t *testing.T, driver string) (*SQLSubmissionRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	repo := NewSQLSubmissionRepository(database.Wrap(conn, driver, logging.NewDiscardLogger(), 0), logging.NewDiscardLogger())
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func columns() []string {
	return []string{"id", "name", "email", "company", "message", "status", "created_at", "context"}
}

func TestInsertAssignsIDAndTimestamp(t *testing.T) {
	repo, mock := newRepo(t, database.DriverSQLite)
	snap := profiling.NewSnapshot()
	snap.Profession = "avvocati"
	company := "Studio Rossi"
	s := &lead.Submission{Name: "Mario", Email: "mario@rossi.it", Company: &company, Message: "Ciao", Context: &snap}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contact_submissions")).
		WithArgs(sqlmock.AnyArg(), "Mario", "mario@rossi.it", "Studio Rossi", "Ciao", "new", "2026-10-17T09:30:00Z",
			`{"profession":"avvocati","demosViewed":[],"demosCompleted":[],"demoMaxProgress":{},"demoTimeSpentMs":{}}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Insert(context.Background(), s))
	assert.Len(t, s.ID, 26)
	assert.Equal(t, "2026-10-17T09:30:00Z", s.CreatedAt)
	assert.Equal(t, lead.StatusNew, s.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWithoutCompanyOrContext(t *testing.T) {
	repo, mock := newRepo(t, database.DriverSQLite)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contact_submissions")).
		WithArgs(sqlmock.AnyArg(), "Anna", "anna@notai.it", nil, "Info", "new", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Insert(context.Background(), &lead.Submission{Name: "Anna", Email: "anna@notai.it", Message: "Info"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPropagatesDriverError(t *testing.T) {
	repo, mock := newRepo(t, database.DriverSQLite)
	mock.ExpectExec("INSERT INTO contact_submissions").WillReturnError(errors.New("database is locked"))

	s := &lead.Submission{Name: "Anna", Email: "anna@notai.it", Message: "Info"}
	err := repo.Insert(context.Background(), s)
	assert.EqualError(t, err, "database is locked")
	assert.Empty(t, s.ID)
}

func TestFindAll(t *testing.T) {
	repo, mock := newRepo(t, database.DriverSQLite)
	rows := sqlmock.NewRows(columns()).
		AddRow("01B", "Anna", "anna@notai.it", nil, "Info", nil, "2026-10-02T10:00:00Z", nil).
		AddRow("01A", "Mario", "mario@rossi.it", "Studio Rossi", "Ciao", "qualified", "2026-10-01T10:00:00Z",
			`{"profession":"avvocati","estimatedSavingsEur":1200}`).
		AddRow("01C", "Luca", "luca@verdi.it", nil, "Hi", "new", "2026-09-30T10:00:00Z", `{broken`)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, company, message, status, created_at, context FROM contact_submissions ORDER BY created_at DESC")).
		WillReturnRows(rows)

	list, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Nil(t, list[0].Company)
	assert.Equal(t, lead.StatusNew, list[0].EffectiveStatus())
	assert.Nil(t, list[0].Context)

	require.NotNil(t, list[1].Company)
	assert.Equal(t, lead.StatusQualified, list[1].Status)
	require.NotNil(t, list[1].Context)
	assert.Equal(t, 1200.0, *list[1].Context.EstimatedSavingsEur)

	assert.Nil(t, list[2].Context)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock := newRepo(t, database.DriverSQLite)
	mock.ExpectQuery("FROM contact_submissions WHERE id = ?").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns()))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, lead.ErrNotFound)
}

func TestUpdateStatusRebindsForPostgres(t *testing.T) {
	repo, mock := newRepo(t, database.DriverPostgres)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contact_submissions SET status = $1 WHERE id = $2")).
		WithArgs("contacted", "01A").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "01A", lead.StatusContacted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownID(t *testing.T) {
	repo, mock := newRepo(t, database.DriverSQLite)
	mock.ExpectExec("UPDATE contact_submissions").
		WithArgs("archived", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "nope", lead.StatusArchived)
	assert.ErrorIs(t, err, lead.ErrNotFound)
}
