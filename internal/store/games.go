package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
)

const gameSelect = `SELECT g.id, g.name, g.image, g.stock_total, g.category_id, g.price_per_day,
        c.name AS category_name
 FROM games g
 JOIN categories c ON c.id = g.category_id`

var gameColumns = map[string]string{
	"id":           "g.id",
	"name":         "g.name",
	"stockTotal":   "g.stock_total",
	"categoryId":   "g.category_id",
	"pricePerDay":  "g.price_per_day",
	"categoryName": "c.name",
}

// ListGames returns games whose name starts with namePrefix, ignoring case.
// An empty prefix matches every game.
func ListGames(ctx context.Context, conn *db.Conn, namePrefix string, opts ListOptions) ([]model.Game, error) {
	query := gameSelect
	var args []any
	if namePrefix != "" {
		query += ` WHERE ` + conn.Lower("g.name") + ` LIKE ? ESCAPE '\'`
		args = append(args, prefixPattern(strings.ToLower(namePrefix)))
	}

	query, args, err := opts.apply(query, args, gameColumns, "g.id")
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Image, &g.StockTotal, &g.CategoryID, &g.PricePerDay, &g.CategoryName); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// GetGame returns a game by ID, or nil if it does not exist.
func GetGame(ctx context.Context, conn *db.Conn, id int64) (*model.Game, error) {
	g := &model.Game{}
	err := conn.QueryRowContext(ctx, gameSelect+` WHERE g.id = ?`, id).
		Scan(&g.ID, &g.Name, &g.Image, &g.StockTotal, &g.CategoryID, &g.PricePerDay, &g.CategoryName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return g, nil
}

// CreateGame creates a game. The category must exist and the name must be
// unused; the category is checked first.
func CreateGame(ctx context.Context, conn *db.Conn, g model.Game) (*model.Game, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ?`, g.CategoryID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking category: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: category %d does not exist", ErrInvalid, g.CategoryID)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM games WHERE name = ?`, g.Name,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking game name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: game %q", ErrConflict, g.Name)
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO games (name, image, stock_total, category_id, price_per_day)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		g.Name, g.Image, g.StockTotal, g.CategoryID, g.PricePerDay,
	).Scan(&id)
	if db.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: game %q", ErrConflict, g.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: game %q", ErrConflict, g.Name)
		}
		return nil, fmt.Errorf("committing game: %w", err)
	}

	return GetGame(ctx, conn, id)
}
