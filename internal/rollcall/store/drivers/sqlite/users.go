package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/internal/rollcall/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, password_hash, totp_secret, activated_at, role, created_at, updated_at`

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, totp_secret, activated_at, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, NULL, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.TOTPSecret, string(u.Role), u.CreatedAt, u.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) MarkActivated(ctx context.Context, username string) error {
	// The IS NULL guard keeps activation monotonic even if two activations
	// race across transactions; affecting zero rows is not an error here.
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET activated_at = ?, updated_at = ? WHERE username = ? AND activated_at IS NULL`,
		now, now, username)
	return err
}

// rowsOrNotFound maps a zero-row mutation to store.ErrNotFound.
func rowsOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, username string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE username = ?`,
		newHash, time.Now().UTC(), username)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *usersRepo) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE username = ?`,
		string(role), time.Now().UTC(), username)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *usersRepo) ListUsernames(ctx context.Context) ([]string, error) {
	// ULID ids order by creation time, which gives insertion order.
	rows, err := r.db.QueryContext(ctx, `SELECT username FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		usernames = append(usernames, name)
	}
	return usernames, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
