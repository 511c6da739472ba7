package sqlite

import (
	"context"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
)

type attendanceRepo struct {
	db dbtx
}

func (r *attendanceRepo) InsertDay(ctx context.Context, userID string, day domain.Day) (bool, error) {
	// ON CONFLICT DO NOTHING makes the insert idempotent; the affected row
	// count tells us whether this call created the entry.
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance (user_id, day, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, day) DO NOTHING`,
		userID, string(day), time.Now().UTC())
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *attendanceRepo) ListDays(ctx context.Context, userID string) ([]domain.Day, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day FROM attendance WHERE user_id = ? ORDER BY day`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []domain.Day{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, domain.Day(day))
	}
	return days, rows.Err()
}

func (r *attendanceRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE user_id = ?`, userID)
	return err
}
