package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
)

var customerColumns = map[string]string{
	"id":       "id",
	"name":     "name",
	"phone":    "phone",
	"cpf":      "cpf",
	"birthday": "birthday",
}

// ListCustomers returns customers whose CPF starts with cpfPrefix.
func ListCustomers(ctx context.Context, conn *db.Conn, cpfPrefix string, opts ListOptions) ([]model.Customer, error) {
	query := `SELECT id, name, phone, cpf, birthday FROM customers`
	var args []any
	if cpfPrefix != "" {
		query += ` WHERE cpf LIKE ? ESCAPE '\'`
		args = append(args, prefixPattern(cpfPrefix))
	}

	query, args, err := opts.apply(query, args, customerColumns, "id")
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.CPF, &c.Birthday); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// GetCustomer returns a customer by ID, or nil if it does not exist.
func GetCustomer(ctx context.Context, conn *db.Conn, id int64) (*model.Customer, error) {
	c := &model.Customer{}
	err := conn.QueryRowContext(ctx,
		`SELECT id, name, phone, cpf, birthday FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.CPF, &c.Birthday)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}
	return c, nil
}

// CreateCustomer creates a customer. CPFs are unique.
func CreateCustomer(ctx context.Context, conn *db.Conn, c model.Customer) (*model.Customer, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE cpf = ?`, c.CPF,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking customer cpf: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: customer with cpf %s", ErrConflict, c.CPF)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO customers (name, phone, cpf, birthday) VALUES (?, ?, ?, ?) RETURNING id`,
		c.Name, c.Phone, c.CPF, c.Birthday,
	).Scan(&c.ID)
	if db.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: customer with cpf %s", ErrConflict, c.CPF)
	}
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: customer with cpf %s", ErrConflict, c.CPF)
		}
		return nil, fmt.Errorf("committing customer: %w", err)
	}

	return &c, nil
}

// UpdateCustomer overwrites every field of customer c.ID. The CPF may stay
// the same but must not belong to another customer.
func UpdateCustomer(ctx context.Context, conn *db.Conn, c model.Customer) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE id = ?`, c.ID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking customer: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: customer %d", ErrNotFound, c.ID)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE cpf = ? AND id <> ?`, c.CPF, c.ID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking customer cpf: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: customer with cpf %s", ErrConflict, c.CPF)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone = ?, cpf = ?, birthday = ? WHERE id = ?`,
		c.Name, c.Phone, c.CPF, c.Birthday, c.ID,
	)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: customer with cpf %s", ErrConflict, c.CPF)
	}
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing customer: %w", err)
	}
	return nil
}
