package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "token_type" claim. Verification dispatches on
// this tag so an access token can never be replayed as a refresh or reset
// token (and vice versa).
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeReset   = "reset"
)

// Default token TTLs. Short-lived access tokens, longer refresh tokens and a
// fixed one-day reset token window. Services can override these per-config.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultResetTTL   = 24 * time.Hour
)

// Claims are the self-contained token claims. Tokens are never persisted
// server-side, so everything needed to judge validity lives here plus the
// subject's current last-password-change timestamp.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType tags the variant: access, refresh or reset.
	TokenType string `json:"token_type"`
}

// NewClaims builds claims for a subject. Timestamps are truncated to whole
// seconds at mint time; JWT numeric dates carry no sub-second precision, and
// the revocation comparison relies on both sides sharing that precision.
func NewClaims(subject, tokenType, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC().Truncate(time.Second)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenType: tokenType,
	}
}

// NewJTI returns a unique identifier for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}

// ValidateType checks the token_type tag against the expected variant.
func (c *Claims) ValidateType(want string) error {
	if c.TokenType != want {
		return ErrWrongType
	}
	return nil
}

// ValidateIssuer checks the issuer matches the expected value. An empty
// expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired relative to now.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.UTC().After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}

// IssuedAtTime returns the iat claim as a time, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
