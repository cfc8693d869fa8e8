package services

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*AuthService, *memUserRepo) {
	t.Helper()
	logger, tracker, _ := testDeps(t)
	repo := &memUserRepo{users: map[string]*user.User{}}
	svc := NewAuthService(logger, tracker, repo, user.NewAllowList([]string{"Boss@Example.it"}), "test-secret", time.Hour)
	return svc, repo
}

func TestSignInRoundTrip(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, "boss@example.it", "correct-horse")
	require.NoError(t, err)

	token, id, err := svc.SignIn(ctx, " BOSS@example.it", "correct-horse")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)

	current := svc.CurrentUser(token)
	require.NotNil(t, current)
	assert.Equal(t, "boss@example.it", current.Email)
	assert.True(t, current.IsAdmin)
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, "visitor@example.it", "correct-horse")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "visitor@example.it", "wrong-password")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, _, err = svc.SignIn(ctx, "nobody@example.it", "correct-horse")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestCurrentUserRejectsBadTokens(t *testing.T) {
	svc, _ := newAuth(t)
	assert.Nil(t, svc.CurrentUser(""))
	assert.Nil(t, svc.CurrentUser("not.a.token"))
}

func TestCreateUserRules(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "short@example.it", "1234")
	assert.Error(t, err)

	u, err := svc.CreateUser(ctx, "Visitor@Example.it", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, "visitor@example.it", u.Email)
	assert.NotEqual(t, "long-enough", u.PasswordHash)

	_, err = svc.CreateUser(ctx, "visitor@example.it", "long-enough")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}
