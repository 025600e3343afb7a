package store

import (
	"context"
	"fmt"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
)

var categoryColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

// ListCategories returns categories, by default in insertion order.
func ListCategories(ctx context.Context, conn *db.Conn, opts ListOptions) ([]model.Category, error) {
	query, args, err := opts.apply(`SELECT id, name FROM categories`, nil, categoryColumns, "id")
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory creates a category. Names are unique.
func CreateCategory(ctx context.Context, conn *db.Conn, name string) (*model.Category, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ?`, name,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking category name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category %q", ErrConflict, name)
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES (?) RETURNING id`, name,
	).Scan(&id)
	if db.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: category %q", ErrConflict, name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q", ErrConflict, name)
		}
		return nil, fmt.Errorf("committing category: %w", err)
	}

	return &model.Category{ID: id, Name: name}, nil
}
