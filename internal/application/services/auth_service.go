// Package services provides application-level orchestration services
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/security"
)

// AuthService handles sign-in, token validation and the admin allow-list
type AuthService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	users       user.Repository
	admins      user.AllowList
	jwtSecret   string
	tokenTTL    time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, users user.Repository,
	admins user.AllowList, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		logger:      logger,
		perfTracker: perfTracker,
		users:       users,
		admins:      admins,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// Identity is the signed-in user as seen by handlers
type Identity struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// SignIn checks credentials and returns a signed token. Unknown email and
// wrong password both yield user.ErrInvalidCredentials.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (string, *Identity, error) {
	marker := a.perfTracker.StartOperation("auth:sign_in", "system")
	defer marker.Complete()

	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			marker.SetError(user.ErrInvalidCredentials)
			a.logger.LogAuthOperation("sign_in", email, false, map[string]any{"reason": "unknown_email"})
			return "", nil, user.ErrInvalidCredentials
		}
		marker.SetError(err)
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !security.CheckPassword(u.PasswordHash, password) {
		marker.SetError(user.ErrInvalidCredentials)
		a.logger.LogAuthOperation("sign_in", email, false, map[string]any{"reason": "bad_password"})
		return "", nil, user.ErrInvalidCredentials
	}

	token, err := security.IssueAuthToken(u.ID, u.Email, a.jwtSecret, a.tokenTTL)
	if err != nil {
		marker.SetError(err)
		return "", nil, err
	}
	id := &Identity{UserID: u.ID, Email: u.Email, IsAdmin: a.admins.IsAdmin(u.Email)}
	a.logger.LogAuthOperation("sign_in", u.Email, true, map[string]any{"admin": id.IsAdmin})
	return token, id, nil
}

// SignOut only records the event; the token lives in the client cookie.
func (a *AuthService) SignOut(id *Identity) {
	if id != nil {
		a.logger.LogAuthOperation("sign_out", id.Email, true, nil)
	}
}

// CurrentUser resolves a token to an identity, or returns nil when the token
// is missing or invalid.
func (a *AuthService) CurrentUser(token string) *Identity {
	if token == "" {
		return nil
	}
	claims, err := security.ParseAuthToken(token, a.jwtSecret)
	if err != nil {
		a.logger.Auth().Debug("Rejected auth token", "error", err.Error())
		return nil
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email, IsAdmin: a.admins.IsAdmin(claims.Email)}
}

// IsAdmin reports whether email is on the admin allow-list.
func (a *AuthService) IsAdmin(email string) bool {
	return a.admins.IsAdmin(email)
}

// TokenTTL is the lifetime of issued tokens, used for the cookie max-age.
func (a *AuthService) TokenTTL() time.Duration {
	return a.tokenTTL
}

// CreateUser registers a sign-in account.
func (a *AuthService) CreateUser(ctx context.Context, email, password string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("an email and a password of at least 8 characters are required")
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		ID:           security.GenerateULID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.users.Store(ctx, u); err != nil {
		return nil, err
	}
	a.logger.LogAuthOperation("create_user", email, true, map[string]any{"admin": a.admins.IsAdmin(email)})
	return u, nil
}
