package service

import (
	"context"
	"errors"
	"time"

	"github.com/astroline/identity/internal/identity/domain"
	"github.com/astroline/identity/internal/identity/store"
	"github.com/astroline/identity/pkg/jwtx"
)

// AuthService is the gate every protected operation passes through: verify
// the bearer token's signature and expiry, resolve the subject fresh from the
// store, then apply the revocation rule against the subject's current
// last-password-change timestamp.
type AuthService struct {
	Verifier jwtx.Verifier
	Store    store.Store

	Now func() time.Time
}

// Authenticate validates a raw bearer access token and returns its subject.
// Error classes stay distinct so callers can surface different messages:
// jwtx.ErrExpired / ErrMalformed / ErrInvalidSig for token problems,
// ErrRevoked when a password change superseded the token, ErrInactive for
// deactivated subjects.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (domain.User, jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(rawToken)
	if err != nil {
		return domain.User{}, jwtx.Claims{}, err
	}
	if err := claims.ValidateType(jwtx.TypeAccess); err != nil {
		return domain.User{}, jwtx.Claims{}, err
	}

	subject, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, jwtx.Claims{}, jwtx.ErrInvalidClaim
		}
		return domain.User{}, jwtx.Claims{}, err
	}

	if !subject.Active {
		return domain.User{}, jwtx.Claims{}, ErrInactive
	}
	if PasswordChangedSince(claims.IssuedAtTime(), subject.LastPasswordChange) {
		return domain.User{}, jwtx.Claims{}, ErrRevoked
	}

	return subject, claims, nil
}
