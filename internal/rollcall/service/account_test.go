package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"

	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("returns secret and provisioning URI", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))

		enrollment, err := accounts.Register(ctx, "alice", "hunter2-but-longer")
		require.NoError(t, err)
		require.NotEmpty(t, enrollment.Secret)
		require.True(t, strings.HasPrefix(enrollment.URI, "otpauth://totp/"))
		require.Contains(t, enrollment.URI, "rollcall-test")
		require.Contains(t, enrollment.URI, "alice")
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))

		_, err := accounts.Register(ctx, "alice", "first-password")
		require.NoError(t, err)

		_, err = accounts.Register(ctx, "alice", "second-password")
		require.ErrorIs(t, err, ErrDuplicateAccount)
	})

	t.Run("new accounts start pending with user role", func(t *testing.T) {
		st := newTestStore(t)
		accounts := newAccountService(t, st)

		_, err := accounts.Register(ctx, "alice", "hunter2-but-longer")
		require.NoError(t, err)

		u, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.False(t, u.Activated())
		require.Equal(t, domain.RoleUser, u.Role)
	})
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code activates the account", func(t *testing.T) {
		st := newTestStore(t)
		accounts := newAccountService(t, st)

		enrollment, err := accounts.Register(ctx, "alice", "hunter2-but-longer")
		require.NoError(t, err)

		require.NoError(t, accounts.Activate(ctx, "alice", codeFor(t, enrollment.Secret)))

		u, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.True(t, u.Activated())
	})

	t.Run("wrong code leaves the account pending", func(t *testing.T) {
		st := newTestStore(t)
		accounts := newAccountService(t, st)

		_, err := accounts.Register(ctx, "alice", "hunter2-but-longer")
		require.NoError(t, err)

		require.ErrorIs(t, accounts.Activate(ctx, "alice", "000000"), ErrInvalidOTP)

		u, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.False(t, u.Activated())
	})

	t.Run("unknown account", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))
		require.ErrorIs(t, accounts.Activate(ctx, "ghost", "000000"), ErrUnknownAccount)
	})

	t.Run("repeat activation is rejected", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))

		enrollment := registerActivated(t, accounts, "alice", "hunter2-but-longer")

		err := accounts.Activate(ctx, "alice", codeFor(t, enrollment.Secret))
		require.ErrorIs(t, err, ErrAlreadyActive)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("activated account with correct credentials", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))
		enrollment := registerActivated(t, accounts, "alice", "hunter2-but-longer")

		role, err := accounts.Authenticate(ctx, "alice", "hunter2-but-longer", codeFor(t, enrollment.Secret))
		require.NoError(t, err)
		require.Equal(t, domain.RoleUser, role)
	})

	t.Run("pending account cannot log in even with valid credentials", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))

		enrollment, err := accounts.Register(ctx, "alice", "hunter2-but-longer")
		require.NoError(t, err)

		_, err = accounts.Authenticate(ctx, "alice", "hunter2-but-longer", codeFor(t, enrollment.Secret))
		require.ErrorIs(t, err, ErrNotActivated)
	})

	t.Run("wrong password", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))
		enrollment := registerActivated(t, accounts, "alice", "hunter2-but-longer")

		_, err := accounts.Authenticate(ctx, "alice", "not-the-password", codeFor(t, enrollment.Secret))
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong one-time code", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))
		registerActivated(t, accounts, "alice", "hunter2-but-longer")

		_, err := accounts.Authenticate(ctx, "alice", "hunter2-but-longer", "000000")
		require.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("unknown account", func(t *testing.T) {
		accounts := newAccountService(t, newTestStore(t))

		_, err := accounts.Authenticate(ctx, "ghost", "whatever", "000000")
		require.ErrorIs(t, err, ErrUnknownAccount)
	})
}
