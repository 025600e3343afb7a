package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
)

// CreateStaff creates a staff account.
func CreateStaff(ctx context.Context, conn *db.Conn, username, passwordHash string) (*model.Staff, error) {
	var id int64
	err := conn.QueryRowContext(ctx,
		`INSERT INTO staff (username, password_hash) VALUES (?, ?) RETURNING id`,
		username, passwordHash,
	).Scan(&id)
	if db.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: staff %q", ErrConflict, username)
	}
	if err != nil {
		return nil, fmt.Errorf("creating staff: %w", err)
	}

	return GetStaff(ctx, conn, id)
}

// GetStaff returns a staff account by ID, or nil if it does not exist.
func GetStaff(ctx context.Context, conn *db.Conn, id int64) (*model.Staff, error) {
	s := &model.Staff{}
	err := conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM staff WHERE id = ?`, id,
	).Scan(&s.ID, &s.Username, &s.PasswordHash, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting staff: %w", err)
	}
	return s, nil
}

// GetStaffByUsername returns a staff account by username, or nil.
func GetStaffByUsername(ctx context.Context, conn *db.Conn, username string) (*model.Staff, error) {
	s := &model.Staff{}
	err := conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM staff WHERE username = ?`, username,
	).Scan(&s.ID, &s.Username, &s.PasswordHash, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting staff by username: %w", err)
	}
	return s, nil
}

// CountStaff returns the number of staff accounts.
func CountStaff(ctx context.Context, conn *db.Conn) (int, error) {
	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting staff: %w", err)
	}
	return n, nil
}

// UpdateStaffPassword replaces a staff account's password hash.
func UpdateStaffPassword(ctx context.Context, conn *db.Conn, id int64, passwordHash string) error {
	result, err := conn.ExecContext(ctx,
		`UPDATE staff SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating staff password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: staff %d", ErrNotFound, id)
	}
	return nil
}
