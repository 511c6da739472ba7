package sqlite

import (
	"context"
	"testing"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/internal/rollcall/store"
	"github.com/rollcall-app/rollcall/pkg/idx"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store, username string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "hash",
		TOTPSecret:   "JBSWY3DPEHPK3PXP",
		Role:         domain.RoleUser,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	t.Run("round trip", func(t *testing.T) {
		seedUser(t, st, "alice")

		got, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "alice", got.Username)
		require.Equal(t, domain.RoleUser, got.Role)
		require.Nil(t, got.ActivatedAt)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Username:     "alice",
			PasswordHash: "other",
			TOTPSecret:   "SECRET",
			Role:         domain.RoleUser,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("activation is monotonic", func(t *testing.T) {
		require.NoError(t, st.Users().MarkActivated(ctx, "alice"))

		first, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, first.ActivatedAt)

		// A repeat call must not move the timestamp.
		require.NoError(t, st.Users().MarkActivated(ctx, "alice"))
		second, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, first.ActivatedAt.Unix(), second.ActivatedAt.Unix())
	})

	t.Run("mutations on missing users report not found", func(t *testing.T) {
		require.ErrorIs(t, st.Users().UpdatePasswordHash(ctx, "nobody", "h"), store.ErrNotFound)
		require.ErrorIs(t, st.Users().UpdateRole(ctx, "nobody", domain.RoleAdmin), store.ErrNotFound)
		require.ErrorIs(t, st.Users().DeleteUser(ctx, "nobody"), store.ErrNotFound)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		seedUser(t, st, "bob")
		seedUser(t, st, "carol")

		names, err := st.Users().ListUsernames(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"alice", "bob", "carol"}, names)
	})
}

func TestAttendanceRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, "alice")

	t.Run("insert is idempotent", func(t *testing.T) {
		created, err := st.Attendance().InsertDay(ctx, u.ID, "2024-03-01")
		require.NoError(t, err)
		require.True(t, created)

		created, err = st.Attendance().InsertDay(ctx, u.ID, "2024-03-01")
		require.NoError(t, err)
		require.False(t, created)

		days, err := st.Attendance().ListDays(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []domain.Day{"2024-03-01"}, days)
	})

	t.Run("days come back sorted", func(t *testing.T) {
		_, err := st.Attendance().InsertDay(ctx, u.ID, "2024-03-03")
		require.NoError(t, err)
		_, err = st.Attendance().InsertDay(ctx, u.ID, "2024-03-02")
		require.NoError(t, err)

		days, err := st.Attendance().ListDays(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []domain.Day{"2024-03-01", "2024-03-02", "2024-03-03"}, days)
	})

	t.Run("no marks yields empty slice", func(t *testing.T) {
		other := seedUser(t, st, "bob")
		days, err := st.Attendance().ListDays(ctx, other.ID)
		require.NoError(t, err)
		require.Empty(t, days)
	})

	t.Run("purge removes everything for the user", func(t *testing.T) {
		require.NoError(t, st.Attendance().DeleteAllForUser(ctx, u.ID))
		days, err := st.Attendance().ListDays(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, days)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	sentinel := store.ErrAlreadyExists
	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Username:     "ghost",
			PasswordHash: "hash",
			TOTPSecret:   "SECRET",
			Role:         domain.RoleUser,
		}))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Users().GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}
