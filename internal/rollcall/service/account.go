package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/internal/rollcall/store"
	"github.com/rollcall-app/rollcall/pkg/cryptox"
	"github.com/rollcall-app/rollcall/pkg/idx"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrUnknownAccount     = errors.New("unknown account")
	ErrAlreadyActive      = errors.New("account already activated")
	ErrNotActivated       = errors.New("account not activated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid one-time code")
)

// Enrollment is what a freshly registered account needs to finish setup
// out of band: the shared secret and its provisioning URI.
type Enrollment struct {
	Secret string // base32 TOTP secret
	URI    string // otpauth:// URI, suitable for QR rendering
}

// AccountService owns the credential and secret lifecycle: registration,
// OTP activation, and login.
type AccountService struct {
	Store  store.Store
	Issuer string // issuer name embedded in provisioning URIs

	// Now is the clock used for OTP verification. Nil means time.Now;
	// tests inject fixed times.
	Now func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates a pending account with a hashed password and a freshly
// provisioned TOTP secret. The uniqueness check and the insert share one
// transaction so two concurrent registrations for the same username cannot
// both pass the check.
func (s *AccountService) Register(ctx context.Context, username, password string) (Enrollment, error) {
	return s.register(ctx, username, password, domain.RoleUser)
}

func (s *AccountService) register(ctx context.Context, username, password string, role domain.Role) (Enrollment, error) {
	l := slogx.FromContext(ctx)

	// Hashing and secret generation are CPU-bound; keep them outside the
	// critical section. Nothing is persisted until the transaction commits,
	// so a duplicate leaves no orphaned secret.
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to hash password: %w", err)
	}

	key, err := generateSecret(s.Issuer, username)
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return ErrDuplicateAccount
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		createErr := tx.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Username:     username,
			PasswordHash: hash,
			TOTPSecret:   key.Secret(),
			Role:         role,
		})
		if errors.Is(createErr, store.ErrAlreadyExists) {
			return ErrDuplicateAccount
		}
		return createErr
	})
	if err != nil {
		return Enrollment{}, err
	}

	l.Info("account registered", slog.String("username", username), slog.String("role", role.String()))
	return Enrollment{Secret: key.Secret(), URI: key.URL()}, nil
}

// Activate verifies a submitted code against the stored secret and flips
// the account to activated. Verification and the flag set share one
// transaction. A failed code leaves the account untouched.
func (s *AccountService) Activate(ctx context.Context, username, code string) error {
	l := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByUsername(ctx, username)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownAccount
		}
		if err != nil {
			return err
		}

		if u.Activated() {
			return ErrAlreadyActive
		}

		if !verifyCode(u.TOTPSecret, code, s.now()) {
			return ErrInvalidOTP
		}

		return tx.Users().MarkActivated(ctx, username)
	})
	if err != nil {
		return err
	}

	l.Info("account activated", slog.String("username", username))
	return nil
}

// Authenticate checks password and one-time code for an activated account
// and returns its role. The failure categories are distinct sentinels so
// internal logic and tests can tell them apart; the HTTP layer collapses
// them into one generic message to avoid username enumeration.
func (s *AccountService) Authenticate(ctx context.Context, username, password, code string) (domain.Role, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUnknownAccount
	}
	if err != nil {
		return "", err
	}

	if !u.Activated() {
		return "", ErrNotActivated
	}

	if cryptox.VerifyPassword(password, u.PasswordHash) != nil {
		l.Info("login failed", slog.String("username", username), slog.String("reason", "password"))
		return "", ErrInvalidCredentials
	}

	if !verifyCode(u.TOTPSecret, code, s.now()) {
		l.Info("login failed", slog.String("username", username), slog.String("reason", "otp"))
		return "", ErrInvalidOTP
	}

	return u.Role, nil
}
