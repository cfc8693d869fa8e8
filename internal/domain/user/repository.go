// Package user defines the sign-in account used to reach the demo and admin
// areas, and the allow-list that marks administrators.
package user

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

// User is an account able to sign in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository is the auth collaborator's storage side.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Store(ctx context.Context, u *User) error
}

// NormalizeEmail lower-cases and trims an address for lookup and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AllowList holds the admin emails, compared case-insensitively.
type AllowList struct {
	emails []string
}

func NewAllowList(emails []string) AllowList {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = NormalizeEmail(e); e != "" {
			out = append(out, e)
		}
	}
	return AllowList{emails: out}
}

// IsAdmin reports whether email is on the list. An empty list admits nobody.
func (a AllowList) IsAdmin(email string) bool {
	email = NormalizeEmail(email)
	return email != "" && slices.Contains(a.emails, email)
}

// Len is the number of configured admins.
func (a AllowList) Len() int { return len(a.emails) }
