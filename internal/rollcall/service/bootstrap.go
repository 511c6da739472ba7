package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first administrator account. It only works
// while the user table is empty; after that, admin accounts come from role
// changes performed by existing admins.
type BootstrapService struct {
	Accounts *AccountService
	Token    string // pre-configured bootstrap token, empty disables the check
}

// Bootstrap registers an admin account through the normal registration
// path, so the account still needs OTP activation before it can log in.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, username, password string) (Enrollment, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Accounts.Store.Users().IsEmpty(ctx)
	if err != nil {
		return Enrollment{}, err
	}
	if !empty {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return Enrollment{}, ErrBootstrapAlready
	}

	if token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return Enrollment{}, ErrBootstrapUnauthorized
	}

	enrollment, err := s.Accounts.register(ctx, username, password, domain.RoleAdmin)
	if err != nil {
		return Enrollment{}, err
	}

	l.Info("system bootstrapped", slog.String("admin", username))
	return enrollment, nil
}
