// Package service verifies bearer tokens for the API
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	perr "curately/internal/platform/errors"
)

// Verifier checks HS256 bearer tokens and extracts the subject
type Verifier struct {
	secret []byte
	leeway time.Duration
}

// Options tune the verifier
type Options struct {
	// Secret signs and verifies tokens. Required
	Secret string
	// Leeway tolerated on exp/nbf checks. Zero means none
	Leeway time.Duration
}

// NewVerifier constructs a Verifier; panics on an empty secret
func NewVerifier(opts Options) *Verifier {
	if opts.Secret == "" {
		panic("auth: secret required")
	}
	return &Verifier{secret: []byte(opts.Secret), leeway: opts.Leeway}
}

// ParseToken validates a compact JWT and returns its subject.
// It satisfies httpkit.TokenFunc
func (v *Verifier) ParseToken(token string) (string, error) {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(v.leeway))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, parserOpts...)
	if err != nil {
		return "", perr.Unauthorizedf("invalid token: %v", err)
	}
	if claims.Subject == "" {
		return "", perr.Unauthorizedf("token has no subject")
	}
	return claims.Subject, nil
}

// Mint issues a signed token for the given subject, mostly for tooling and tests
func (v *Verifier) Mint(userID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
