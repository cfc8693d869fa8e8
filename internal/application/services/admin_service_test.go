package services

import (
	"context"
	"testing"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/leadview"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRepo(t *testing.T) *memLeadRepo {
	t.Helper()
	repo := &memLeadRepo{}
	ctx := context.Background()
	for _, p := range []string{"avvocati", "dentisti", "avvocati"} {
		snap := profiling.NewSnapshot()
		snap.Profession = p
		s, err := lead.BuildSubmission(lead.Form{Name: "Cliente " + p, Email: p + "@example.it", Message: "ciao"}, &snap)
		require.NoError(t, err)
		require.NoError(t, repo.Insert(ctx, s))
	}
	return repo
}

func TestAdminSubmissionsFiltersAndSorts(t *testing.T) {
	logger, tracker, _ := testDeps(t)
	svc := NewAdminService(logger, tracker, seededRepo(t), nil)

	dash, err := svc.Submissions(context.Background(), leadview.Query{Profession: "avvocati"}, leadview.DefaultSort)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.Total)
	require.Len(t, dash.Submissions, 2)
	assert.Equal(t, "lead-3", dash.Submissions[0].ID)
	assert.Equal(t, "lead-1", dash.Submissions[1].ID)
	assert.Equal(t, 3, dash.Stats.Total)
	assert.Equal(t, []string{"avvocati", "dentisti"}, dash.Professions)
}

func TestAdminUpdateStatus(t *testing.T) {
	logger, tracker, _ := testDeps(t)
	repo := seededRepo(t)
	feed := &recordingBroadcaster{}
	svc := NewAdminService(logger, tracker, repo, feed)
	ctx := context.Background()

	status, err := svc.UpdateStatus(ctx, "admin@example.it", "lead-2", " Qualified ")
	require.NoError(t, err)
	assert.Equal(t, lead.StatusQualified, status)
	assert.Equal(t, lead.StatusQualified, feed.updated["lead-2"])

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByStatus[lead.StatusQualified])

	_, err = svc.UpdateStatus(ctx, "admin@example.it", "lead-2", "won")
	assert.ErrorIs(t, err, lead.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "admin@example.it", "missing", "archived")
	assert.ErrorIs(t, err, lead.ErrNotFound)
}

func TestAdminStorageFailureIsWrapped(t *testing.T) {
	logger, tracker, _ := testDeps(t)
	svc := NewAdminService(logger, tracker, &memLeadRepo{failErr: errBoom}, nil)

	_, err := svc.Submissions(context.Background(), leadview.Query{}, leadview.DefaultSort)
	assert.ErrorIs(t, err, lead.ErrStorage)
}
