// Package security provides sign-in tokens, password hashing and id generation.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// AuthCookieName carries the signed auth token.
const AuthCookieName = "praxis_auth"

var ErrInvalidToken = errors.New("invalid token")

// AuthClaims identifies a signed-in user.
type AuthClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueAuthToken signs an HS256 token for the user, valid for ttl.
func IssueAuthToken(userID, email, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now().UTC()
	claims := AuthClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        GenerateULID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign auth token: %w", err)
	}
	return signed, nil
}

// ParseAuthToken validates signature, algorithm and expiry.
func ParseAuthToken(tokenString, secret string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
