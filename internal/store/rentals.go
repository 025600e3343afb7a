package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
)

const rentalSelect = `SELECT r.id, r.customer_id, r.game_id, r.rent_date, r.days_rented,
        r.return_date, r.original_price, r.delay_fee,
        c.id, c.name, g.id, g.name, g.category_id, cat.name
 FROM rentals r
 JOIN customers c ON c.id = r.customer_id
 JOIN games g ON g.id = r.game_id
 JOIN categories cat ON cat.id = g.category_id`

var rentalColumns = map[string]string{
	"id":            "r.id",
	"customerId":    "r.customer_id",
	"gameId":        "r.game_id",
	"rentDate":      "r.rent_date",
	"daysRented":    "r.days_rented",
	"returnDate":    "r.return_date",
	"originalPrice": "r.original_price",
	"delayFee":      "r.delay_fee",
}

// RentalFilter narrows ListRentals. Zero values mean "any"; set filters
// are combined with AND.
type RentalFilter struct {
	CustomerID int64
	GameID     int64
	Status     string // model.RentalStatusOpen or model.RentalStatusClosed
	StartDate  *model.Date
}

// ListRentals returns rentals with their customer and game summaries.
func ListRentals(ctx context.Context, conn *db.Conn, f RentalFilter, opts ListOptions) ([]model.Rental, error) {
	query := rentalSelect + ` WHERE 1=1`
	var args []any

	if f.CustomerID > 0 {
		query += ` AND r.customer_id = ?`
		args = append(args, f.CustomerID)
	}
	if f.GameID > 0 {
		query += ` AND r.game_id = ?`
		args = append(args, f.GameID)
	}
	switch f.Status {
	case "":
	case model.RentalStatusOpen:
		query += ` AND r.return_date IS NULL`
	case model.RentalStatusClosed:
		query += ` AND r.return_date IS NOT NULL`
	default:
		return nil, fmt.Errorf("%w: unknown rental status %q", ErrInvalid, f.Status)
	}
	if f.StartDate != nil {
		query += ` AND r.rent_date >= ?`
		args = append(args, *f.StartDate)
	}

	query, args, err := opts.apply(query, args, rentalColumns, "r.id")
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rentals: %w", err)
	}
	defer rows.Close()

	var rentals []model.Rental
	for rows.Next() {
		var r model.Rental
		if err := scanRental(rows, &r); err != nil {
			return nil, fmt.Errorf("scanning rental: %w", err)
		}
		rentals = append(rentals, r)
	}
	return rentals, rows.Err()
}

// GetRental returns a rental by ID, or nil if it does not exist.
func GetRental(ctx context.Context, conn *db.Conn, id int64) (*model.Rental, error) {
	r := &model.Rental{}
	err := scanRental(conn.QueryRowContext(ctx, rentalSelect+` WHERE r.id = ?`, id), r)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting rental: %w", err)
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRental(s scanner, r *model.Rental) error {
	return s.Scan(&r.ID, &r.CustomerID, &r.GameID, &r.RentDate, &r.DaysRented,
		&r.ReturnDate, &r.OriginalPrice, &r.DelayFee,
		&r.Customer.ID, &r.Customer.Name,
		&r.Game.ID, &r.Game.Name, &r.Game.CategoryID, &r.Game.CategoryName)
}

// CreateRental rents one copy of a game to a customer starting today.
// The stock check and the insert share a transaction that locks the game row,
// so concurrent rentals cannot exceed the game's stock.
func CreateRental(ctx context.Context, conn *db.Conn, customerID, gameID int64, daysRented int, today model.Date) (*model.Rental, error) {
	if daysRented <= 0 {
		return nil, fmt.Errorf("%w: days rented must be positive", ErrInvalid)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE id = ?`, customerID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking customer: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: customer %d does not exist", ErrInvalid, customerID)
	}

	var stockTotal int
	var pricePerDay int64
	err = tx.QueryRowContext(ctx,
		`SELECT stock_total, price_per_day FROM games WHERE id = ?`+conn.ForUpdate(), gameID,
	).Scan(&stockTotal, &pricePerDay)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: game %d does not exist", ErrInvalid, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking game: %w", err)
	}

	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentals WHERE game_id = ? AND return_date IS NULL`, gameID,
	).Scan(&active)
	if err != nil {
		return nil, fmt.Errorf("counting active rentals: %w", err)
	}
	slog.Debug("checked game stock", "game", gameID, "active", active, "stock", stockTotal)
	if active >= stockTotal {
		return nil, fmt.Errorf("%w: game %d is out of stock (%d of %d rented)", ErrInvalid, gameID, active, stockTotal)
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO rentals (customer_id, game_id, rent_date, days_rented, return_date, original_price, delay_fee)
		 VALUES (?, ?, ?, ?, NULL, ?, NULL) RETURNING id`,
		customerID, gameID, today, daysRented, model.OriginalPrice(daysRented, pricePerDay),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("creating rental: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rental: %w", err)
	}

	return GetRental(ctx, conn, id)
}

// ReturnRental marks an active rental returned at now and records its delay
// fee. Returning twice fails with ErrInvalid.
func ReturnRental(ctx context.Context, conn *db.Conn, id int64, now time.Time) (*model.Rental, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		rentDate    model.Date
		daysRented  int
		returnDate  *model.Date
		pricePerDay int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT r.rent_date, r.days_rented, r.return_date, g.price_per_day
		 FROM rentals r
		 JOIN games g ON g.id = r.game_id
		 WHERE r.id = ?`+conn.ForUpdate(), id,
	).Scan(&rentDate, &daysRented, &returnDate, &pricePerDay)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: rental %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting rental: %w", err)
	}
	if returnDate != nil {
		return nil, fmt.Errorf("%w: rental %d was already returned on %s", ErrInvalid, id, returnDate)
	}

	fee := model.DelayFee(rentDate, daysRented, pricePerDay, now)
	if fee != nil {
		slog.Debug("computed delay fee", "rental", id, "rent_date", rentDate, "days_rented", daysRented, "returned_at", now, "fee", *fee)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE rentals SET return_date = ?, delay_fee = ? WHERE id = ? AND return_date IS NULL`,
		model.DateOf(now), fee, id,
	)
	if err != nil {
		return nil, fmt.Errorf("returning rental: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: rental %d was already returned", ErrInvalid, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}

	return GetRental(ctx, conn, id)
}

// DeleteRental permanently removes a returned rental. Active rentals cannot
// be deleted.
func DeleteRental(ctx context.Context, conn *db.Conn, id int64) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var returnDate *model.Date
	err = tx.QueryRowContext(ctx,
		`SELECT return_date FROM rentals WHERE id = ?`+conn.ForUpdate(), id,
	).Scan(&returnDate)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: rental %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("getting rental: %w", err)
	}
	if returnDate == nil {
		return fmt.Errorf("%w: rental %d has not been returned", ErrInvalid, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rentals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting rental: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// GetRentalMetrics sums revenue (original prices plus delay fees) over
// rentals whose rent date lies within [start, end]. Nil bounds are open.
func GetRentalMetrics(ctx context.Context, conn *db.Conn, start, end *model.Date) (*model.RentalMetrics, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalid, end, start)
	}

	query := `SELECT CAST(COALESCE(SUM(original_price + COALESCE(delay_fee, 0)), 0) AS BIGINT), COUNT(*)
	          FROM rentals WHERE 1=1`
	var args []any
	if start != nil {
		query += ` AND rent_date >= ?`
		args = append(args, *start)
	}
	if end != nil {
		query += ` AND rent_date <= ?`
		args = append(args, *end)
	}

	m := &model.RentalMetrics{}
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&m.Revenue, &m.Rentals); err != nil {
		return nil, fmt.Errorf("computing rental metrics: %w", err)
	}
	if m.Rentals > 0 {
		m.Average = m.Revenue / m.Rentals
	}
	return m, nil
}
