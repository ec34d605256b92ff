package service

import (
	"context"
	"errors"
	"time"

	"github.com/astroline/identity/internal/identity/domain"
	"github.com/astroline/identity/internal/identity/store"
	"github.com/astroline/identity/pkg/cryptox"
	"github.com/astroline/identity/pkg/jwtx"
	"github.com/astroline/identity/pkg/slogx"
)

// SessionService mints and rotates access+refresh token pairs. Tokens are
// self-contained JWTs; nothing here writes token state, so refresh "rotation"
// simply supersedes the old pair in the client's cookie.
type SessionService struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is a clock seam for tests; nil means time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue mints a fresh access+refresh pair for an already-authenticated
// subject. Both tokens are minted at the same instant so they share an iat
// second.
func (s *SessionService) Issue(subject domain.User) (*domain.TokenPair, error) {
	now := s.now()

	access, err := s.Signer.Sign(jwtx.NewClaims(subject.ID, jwtx.TypeAccess, s.Issuer, s.AccessTTL, now))
	if err != nil {
		return nil, err
	}

	refresh, err := s.Signer.Sign(jwtx.NewClaims(subject.ID, jwtx.TypeRefresh, s.Issuer, s.RefreshTTL, now))
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: s.AccessTTL,
	}, nil
}

// Login authenticates credentials and issues a pair. Unknown email, wrong
// password and deactivated accounts all collapse into ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	subject, err := s.Store.Users().GetUserByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash verification anyway so the unknown-identifier
			// path costs the same as a wrong password.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.User{}, nil, ErrInvalidCredentials
		}
		return domain.User{}, nil, err
	}

	if err := cryptox.VerifyPassword(password, subject.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login rejected: password mismatch", "subject_id", subject.ID)
			return domain.User{}, nil, ErrInvalidCredentials
		}
		return domain.User{}, nil, err
	}

	if !subject.Active {
		l.Info("login rejected: inactive account", "subject_id", subject.ID)
		return domain.User{}, nil, ErrInvalidCredentials
	}

	pair, err := s.Issue(subject)
	if err != nil {
		return domain.User{}, nil, err
	}
	return subject, pair, nil
}

// Refresh exchanges a raw refresh token for a brand-new pair. The old
// refresh token is not blacklisted (stateless design) but is superseded in
// the client's stored cookie. Failure modes stay distinct so the client can
// tell "log in again" from "password changed".
func (s *SessionService) Refresh(ctx context.Context, rawRefresh string) (*domain.TokenPair, error) {
	claims, err := s.Verifier.Verify(rawRefresh)
	if err != nil {
		// jwtx.ErrExpired passes through; everything else is invalid.
		return nil, err
	}
	if err := claims.ValidateType(jwtx.TypeRefresh); err != nil {
		return nil, ErrInvalidRefresh
	}

	subject, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if !subject.Active {
		return nil, ErrInactive
	}
	if PasswordChangedSince(claims.IssuedAtTime(), subject.LastPasswordChange) {
		return nil, ErrRevoked
	}

	return s.Issue(subject)
}

// dummyHash keeps login timing flat for unknown identifiers. A fixed
// all-zero salt and digest; it can never match a real password.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
