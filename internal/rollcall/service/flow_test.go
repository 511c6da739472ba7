package service

import (
	"context"
	"testing"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"

	"github.com/stretchr/testify/require"
)

// TestAccountLifecycle walks one account through the whole system:
// register, activate, log in, mark attendance across days, then removal
// by an admin.
func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	accounts := newAccountService(t, st)
	admin := &AdminService{Store: st}

	clock := testTime
	attendance := &AttendanceService{Store: st, Now: func() time.Time { return clock }}

	// Day zero: bootstrap the admin, register alice.
	bootstrap := &BootstrapService{Accounts: accounts, Token: "setup-token"}
	rootEnrollment, err := bootstrap.Bootstrap(ctx, "setup-token", "root", "root-password-123")
	require.NoError(t, err)
	require.NoError(t, accounts.Activate(ctx, "root", codeFor(t, rootEnrollment.Secret)))

	enrollment, err := accounts.Register(ctx, "alice", "hunter2-but-longer")
	require.NoError(t, err)

	// Alice cannot log in until she proves possession of the secret.
	_, err = accounts.Authenticate(ctx, "alice", "hunter2-but-longer", codeFor(t, enrollment.Secret))
	require.ErrorIs(t, err, ErrNotActivated)

	require.NoError(t, accounts.Activate(ctx, "alice", codeFor(t, enrollment.Secret)))

	role, err := accounts.Authenticate(ctx, "alice", "hunter2-but-longer", codeFor(t, enrollment.Secret))
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, role)

	// Two days of attendance, with a duplicate mark on the second day.
	result, _, err := attendance.Mark(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.MarkCreated, result)

	clock = testTime.AddDate(0, 0, 1)
	result, _, err = attendance.Mark(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.MarkCreated, result)

	result, _, err = attendance.Mark(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.MarkAlreadyPresent, result)

	days, err := attendance.DatesFor(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []domain.Day{"2024-03-01", "2024-03-02"}, days)

	// The admin sees both accounts, then removes alice entirely.
	users, err := admin.ListUsers(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, []string{"root", "alice"}, users)

	require.NoError(t, admin.DeleteUser(ctx, "root", "alice"))

	_, err = accounts.Authenticate(ctx, "alice", "hunter2-but-longer", codeFor(t, enrollment.Secret))
	require.ErrorIs(t, err, ErrUnknownAccount)

	users, err = admin.ListUsers(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, []string{"root"}, users)
}
