package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/internal/rollcall/store"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

// AttendanceService records at most one attendance entry per user per
// calendar day and answers which days a user has attended.
type AttendanceService struct {
	Store store.Store

	// Now supplies the server clock; the calendar day is always derived
	// here, never taken from the client, so marks cannot be backdated.
	Now func() time.Time
}

func (s *AttendanceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Mark records today's attendance for the user. The existence check and
// insert share one transaction; repeat calls on the same day return
// MarkAlreadyPresent without mutating anything.
func (s *AttendanceService) Mark(ctx context.Context, username string) (domain.MarkResult, domain.Day, error) {
	day := domain.DayOf(s.now())
	result := domain.MarkCreated

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByUsername(ctx, username)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownAccount
		}
		if err != nil {
			return err
		}

		created, err := tx.Attendance().InsertDay(ctx, u.ID, day)
		if err != nil {
			return err
		}
		if !created {
			result = domain.MarkAlreadyPresent
		}
		return nil
	})
	if err != nil {
		return 0, "", err
	}

	if result == domain.MarkCreated {
		slogx.FromContext(ctx).Info("attendance recorded",
			slog.String("username", username), slog.String("day", day.String()))
	}
	return result, day, nil
}

// DatesFor returns the user's attended days in ascending order. A known
// user with no marks yields an empty slice, never an error.
func (s *AttendanceService) DatesFor(ctx context.Context, username string) ([]domain.Day, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, err
	}

	return s.Store.Attendance().ListDays(ctx, u.ID)
}
