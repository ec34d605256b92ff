package service

import (
	"context"
	"testing"
	"time"

	"github.com/astroline/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, sessions *SessionService) *AuthService {
	t.Helper()
	return &AuthService{Verifier: sessions.Verifier, Store: sessions.Store}
}

func TestAuthenticateAcceptsFreshAccessToken(t *testing.T) {
	st := newTestStore(t)
	sessions := newSessionService(t, st)
	gate := newAuthService(t, sessions)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := sessions.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	subject, claims, err := gate.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	require.Equal(t, u.ID, subject.ID)
	require.Equal(t, jwtx.TypeAccess, claims.TokenType)
}

func TestAuthenticateRejectsRefreshTokenAsBearer(t *testing.T) {
	st := newTestStore(t)
	sessions := newSessionService(t, st)
	gate := newAuthService(t, sessions)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := sessions.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	_, _, err = gate.Authenticate(ctx, pair.Refresh)
	require.ErrorIs(t, err, jwtx.ErrWrongType)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	st := newTestStore(t)
	sessions := newSessionService(t, st)
	gate := newAuthService(t, sessions)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := sessions.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	changedAt := time.Now().UTC().Truncate(time.Second).Add(2 * time.Second)
	require.NoError(t, st.Users().SetPassword(ctx, u.ID, "new-hash", changedAt))

	_, _, err = gate.Authenticate(ctx, pair.Access)
	require.ErrorIs(t, err, ErrRevoked)
	require.NotErrorIs(t, err, jwtx.ErrExpired, "revoked must not masquerade as expired")
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	st := newTestStore(t)
	sessions := newSessionService(t, st)
	gate := newAuthService(t, sessions)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	sessions.Now = func() time.Time { return time.Now().Add(-sessions.AccessTTL - time.Minute) }
	pair, err := sessions.Issue(u)
	require.NoError(t, err)

	_, _, err = gate.Authenticate(ctx, pair.Access)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestAuthenticateBoundaryTokenStaysValid(t *testing.T) {
	st := newTestStore(t)
	sessions := newSessionService(t, st)
	gate := newAuthService(t, sessions)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	// Pin the clock so the token's iat second equals last_password_change.
	at := time.Now().UTC().Truncate(time.Second)
	sessions.Now = func() time.Time { return at }
	require.NoError(t, st.Users().SetPassword(ctx, u.ID, u.PasswordHash, at))

	pair, err := sessions.Issue(u)
	require.NoError(t, err)

	_, _, err = gate.Authenticate(ctx, pair.Access)
	require.NoError(t, err, "token issued in the change's second must stay valid")
}

func TestAuthenticateRejectsInactiveSubject(t *testing.T) {
	st := newTestStore(t)
	sessions := newSessionService(t, st)
	gate := newAuthService(t, sessions)
	u := seedUser(t, st, "alice@example.com", "alice")
	ctx := context.Background()

	_, pair, err := sessions.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	require.NoError(t, st.Users().DeactivateUser(ctx, u.ID))

	_, _, err = gate.Authenticate(ctx, pair.Access)
	require.ErrorIs(t, err, ErrInactive)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	st := newTestStore(t)
	sessions := newSessionService(t, st)
	gate := newAuthService(t, sessions)

	_, _, err := gate.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}
