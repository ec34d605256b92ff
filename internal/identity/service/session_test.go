package service

import (
	"context"
	"testing"
	"time"

	"github.com/astroline/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesVerifiablePair(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")

	subject, pair, err := svc.Login(context.Background(), u.Email, testPassword)
	require.NoError(t, err)
	require.Equal(t, u.ID, subject.ID)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.Equal(t, svc.AccessTTL, pair.ExpiresIn)

	access, err := svc.Verifier.Verify(pair.Access)
	require.NoError(t, err)
	require.Equal(t, u.ID, access.Subject)
	require.Equal(t, jwtx.TypeAccess, access.TokenType)

	refresh, err := svc.Verifier.Verify(pair.Refresh)
	require.NoError(t, err)
	require.Equal(t, u.ID, refresh.Subject)
	require.Equal(t, jwtx.TypeRefresh, refresh.TokenType)
}

func TestLoginFailuresCollapseToInvalidCredentials(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", testPassword)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, u.Email, "Wrong-pass1!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		require.NoError(t, st.Users().DeactivateUser(ctx, u.ID))
		_, _, err := svc.Login(ctx, u.Email, testPassword)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshRotatesPair(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	// Mint the new pair a second later so it is distinguishable.
	svc.Now = func() time.Time { return time.Now().Add(time.Second) }

	rotated, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEqual(t, pair.Access, rotated.Access)
	require.NotEqual(t, pair.Refresh, rotated.Refresh)

	claims, err := svc.Verifier.Verify(rotated.Refresh)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	svc.Now = func() time.Time { return time.Now().Add(-svc.RefreshTTL - time.Minute) }
	_, pair, err := svc.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	svc.Now = nil
	_, err = svc.Refresh(ctx, pair.Refresh)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	// An access token presented as a refresh token must be refused even
	// though its signature and expiry are fine.
	_, err = svc.Refresh(ctx, pair.Access)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	// Password change after issuance supersedes the refresh token.
	changedAt := time.Now().UTC().Truncate(time.Second).Add(2 * time.Second)
	require.NoError(t, st.Users().SetPassword(ctx, u.ID, "new-hash", changedAt))

	_, err = svc.Refresh(ctx, pair.Refresh)
	require.ErrorIs(t, err, ErrRevoked)
}

func TestRefreshRejectsDeletedSubject(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	require.NoError(t, st.Users().DeleteUser(ctx, u.ID))

	_, err = svc.Refresh(ctx, pair.Refresh)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshRejectsInactiveSubject(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(t, st)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	require.NoError(t, st.Users().DeactivateUser(ctx, u.ID))

	_, err = svc.Refresh(ctx, pair.Refresh)
	require.ErrorIs(t, err, ErrInactive)
}
