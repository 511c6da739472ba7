package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/internal/rollcall/store"
	"github.com/rollcall-app/rollcall/pkg/cryptox"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

var (
	ErrUnauthorized = errors.New("admin privileges required")
	ErrInvalidRole  = errors.New("invalid role")
)

// AdminService performs privileged mutations on behalf of admin callers.
// Every operation authorizes the caller before touching the target, so an
// unauthorized caller learns nothing about whether the target exists.
// Admins may target themselves; self-demotion and self-deletion are allowed.
type AdminService struct {
	Store store.Store
}

// authorize checks that caller exists and holds the admin role. It accepts
// any store.Store so it runs both inside and outside transactions.
func (s *AdminService) authorize(ctx context.Context, st store.Store, caller string) error {
	u, err := st.Users().GetUserByUsername(ctx, caller)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if u.Role != domain.RoleAdmin {
		return ErrUnauthorized
	}
	return nil
}

// ResetPassword rehashes newPassword and replaces the target's hash.
func (s *AdminService) ResetPassword(ctx context.Context, caller, target, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}

		if err := tx.Users().UpdatePasswordHash(ctx, target, hash); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownAccount
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset",
		slog.String("admin", caller), slog.String("target", target))
	return nil
}

// ChangeRole sets the target's role to newRole after validating it.
func (s *AdminService) ChangeRole(ctx context.Context, caller, target, newRole string) error {
	role := domain.Role(newRole)
	if !role.Valid() {
		return ErrInvalidRole
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}

		if err := tx.Users().UpdateRole(ctx, target, role); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownAccount
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("role changed",
		slog.String("admin", caller), slog.String("target", target), slog.String("role", newRole))
	return nil
}

// DeleteUser removes the target account and purges its attendance entries
// in the same transaction, so no partial delete is ever visible.
func (s *AdminService) DeleteUser(ctx context.Context, caller, target string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}

		u, err := tx.Users().GetUserByUsername(ctx, target)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownAccount
		}
		if err != nil {
			return err
		}

		if err := tx.Attendance().DeleteAllForUser(ctx, u.ID); err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, target)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user deleted",
		slog.String("admin", caller), slog.String("target", target))
	return nil
}

// ListUsers returns all usernames in insertion order.
func (s *AdminService) ListUsers(ctx context.Context, caller string) ([]string, error) {
	if err := s.authorize(ctx, s.Store, caller); err != nil {
		return nil, err
	}
	return s.Store.Users().ListUsernames(ctx)
}
