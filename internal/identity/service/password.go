package service

import (
	"context"
	"errors"
	"time"

	"github.com/astroline/identity/internal/identity/domain"
	"github.com/astroline/identity/internal/identity/mail"
	"github.com/astroline/identity/internal/identity/store"
	"github.com/astroline/identity/pkg/cryptox"
	"github.com/astroline/identity/pkg/jwtx"
	"github.com/astroline/identity/pkg/slogx"
)

// PasswordService owns the credential transitions: in-session password
// change, and the out-of-session reset flow driven by an emailed reset token.
// Every transition bumps last_password_change, which is what revokes all
// previously issued tokens.
type PasswordService struct {
	Store    store.Store
	Sessions *SessionService
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	ResetTTL time.Duration
	Notifier mail.Notifier

	Now func() time.Time
}

func (s *PasswordService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ChangePassword verifies the old password, enforces the policy, writes the
// new hash with a bumped last_password_change, and immediately mints a fresh
// pair so the caller's session is not broken by the very revocation it just
// triggered.
func (s *PasswordService) ChangePassword(ctx context.Context, subject domain.User, oldPassword, newPassword string) (*domain.TokenPair, error) {
	if err := cryptox.VerifyPassword(oldPassword, subject.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return nil, ErrIncorrectPassword
		}
		return nil, err
	}

	if err := ValidatePasswordPolicy(newPassword); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	changedAt := s.now().UTC().Truncate(time.Second)
	if err := s.Store.Users().SetPassword(ctx, subject.ID, hash, changedAt); err != nil {
		return nil, err
	}

	// The fresh pair's iat lands in the same second as changedAt or later;
	// the boundary-inclusive revocation rule keeps it valid either way.
	return s.Sessions.Issue(subject)
}

// RequestReset performs the out-of-band identity check (date of birth on
// file) and emails a reset token. Unknown email and mismatched date of birth
// are the same error, and a delivery failure is logged but not surfaced, so
// the endpoint reveals nothing about which addresses exist.
func (s *PasswordService) RequestReset(ctx context.Context, email, dateOfBirth string) error {
	l := slogx.FromContext(ctx)

	subject, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVerificationFailed
		}
		return err
	}

	if subject.DateOfBirth != dateOfBirth {
		l.Info("reset rejected: date of birth mismatch", "subject_id", subject.ID)
		return ErrVerificationFailed
	}

	token, err := s.Signer.Sign(jwtx.NewClaims(subject.ID, jwtx.TypeReset, s.Issuer, s.ResetTTL, s.now()))
	if err != nil {
		return err
	}

	if err := s.Notifier.SendPasswordReset(ctx, subject.Email, token, s.ResetTTL); err != nil {
		// Fire and forget: the caller still gets an Ack.
		l.Error("reset email delivery failed", "subject_id", subject.ID, "err", err)
	}

	return nil
}

// ApplyReset authorizes a password change with a reset token instead of a
// session. The token must verify, be reset-typed and unexpired, and must not
// predate the subject's last password change. The first successful apply
// therefore consumes the token: the change it performs revokes any replay of
// the same token.
func (s *PasswordService) ApplyReset(ctx context.Context, rawToken, newPassword string) error {
	claims, err := s.Verifier.Verify(rawToken)
	if err != nil {
		return err
	}
	if err := claims.ValidateType(jwtx.TypeReset); err != nil {
		return err
	}

	subject, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.ErrInvalidClaim
		}
		return err
	}

	if PasswordChangedSince(claims.IssuedAtTime(), subject.LastPasswordChange) {
		return ErrRevoked
	}

	if err := ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	changedAt := s.now().UTC().Truncate(time.Second)
	return s.Store.Users().SetPassword(ctx, subject.ID, hash, changedAt)
}
