// Package token issues and verifies the signed identity tokens exchanged
// between services. Tokens are stateless: there is no revocation list and no
// refresh flow, re-login is the only renewal path.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pvaldes/travelbooking/internal/domain"
)

var (
	// ErrExpired indicates a well-formed token past its expiry.
	ErrExpired = errors.New("token expired")

	// ErrInvalid indicates a malformed token or a signature mismatch.
	ErrInvalid = errors.New("invalid token")
)

type identityClaims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Authority signs and verifies identity tokens with a shared HMAC secret.
type Authority struct {
	signingKey []byte
	ttl        time.Duration
	timeFunc   func() time.Time // injectable for tests
}

func NewAuthority(secret string, ttl time.Duration) (*Authority, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Authority{
		signingKey: []byte(secret),
		ttl:        ttl,
		timeFunc:   time.Now,
	}, nil
}

// Issue creates a signed token carrying the user's claims, valid for the
// authority's TTL from now.
func (a *Authority) Issue(user domain.Claims) (string, error) {
	now := a.timeFunc()
	claims := identityClaims{
		UserID:  user.UserID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded claims.
// Expiry and invalidity are distinct outcomes: the boundary maps them to
// different statuses.
func (a *Authority) Verify(tokenString string) (*domain.Claims, error) {
	now := a.timeFunc()

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&identityClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}

	return &domain.Claims{
		UserID:  claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}, nil
}
