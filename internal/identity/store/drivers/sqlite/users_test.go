package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/astroline/identity/internal/identity/domain"
	"github.com/astroline/identity/internal/identity/store"
	"github.com/astroline/identity/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testUser() domain.User {
	return domain.User{
		ID:                 idx.New().String(),
		Email:              "alice@example.com",
		Username:           "alice",
		PasswordHash:       "hash",
		DateOfBirth:        "1990-04-12",
		AcceptTOS:          true,
		Active:             true,
		LastPasswordChange: time.Now().UTC().Truncate(time.Second),
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	for name, fetch := range map[string]func() (domain.User, error){
		"by id":       func() (domain.User, error) { return s.Users().GetUserByID(ctx, u.ID) },
		"by email":    func() (domain.User, error) { return s.Users().GetUserByEmail(ctx, u.Email) },
		"by username": func() (domain.User, error) { return s.Users().GetUserByUsername(ctx, u.Username) },
	} {
		t.Run(name, func(t *testing.T) {
			got, err := fetch()
			require.NoError(t, err)
			require.Equal(t, u.ID, got.ID)
			require.Equal(t, u.Email, got.Email)
			require.Equal(t, u.DateOfBirth, got.DateOfBirth)
			require.True(t, got.Active)
			require.True(t, got.AcceptTOS)
			require.True(t, got.LastPasswordChange.Equal(u.LastPasswordChange))
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users().GetUserByID(context.Background(), idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("duplicate email", func(t *testing.T) {
		dup := testUser()
		dup.Username = "someone-else"
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := testUser()
		dup.Email = "other@example.com"
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})
}

func TestExistenceProbes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	ok, err := s.Users().EmailExists(ctx, u.Email)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Users().EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Users().UsernameExists(ctx, u.Username)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Users().UsernameExists(ctx, "nobody")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetPasswordStoresWholeSeconds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	changedAt := time.Date(2024, 5, 2, 9, 30, 15, 999_000_000, time.UTC)
	require.NoError(t, s.Users().SetPassword(ctx, u.ID, "new-hash", changedAt))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.Equal(t, changedAt.Truncate(time.Second), got.LastPasswordChange)
	require.Zero(t, got.LastPasswordChange.Nanosecond())
}

func TestSetPasswordUnknownUser(t *testing.T) {
	s := newTestStore(t)

	err := s.Users().SetPassword(context.Background(), idx.New().String(), "h", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeactivateAndDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().DeactivateUser(ctx, u.ID))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser()
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	require.Error(t, err)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
