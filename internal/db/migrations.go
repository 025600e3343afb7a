package db

import (
	"context"
	"fmt"
	"log/slog"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent and valid for both dialects. Append new
// migrations at the end.
var migrations = []string{
	// Migration 1: stock checks count active rentals per game.
	`CREATE INDEX IF NOT EXISTS idx_rentals_game_active
	     ON rentals(game_id) WHERE return_date IS NULL`,
	// Migration 2: rental listing filters by customer.
	`CREATE INDEX IF NOT EXISTS idx_rentals_customer ON rentals(customer_id)`,
	// Migration 3: game listing joins categories.
	`CREATE INDEX IF NOT EXISTS idx_games_category ON games(category_id)`,
}

// Migrate ensures the schema exists and applies all migrations.
func Migrate(ctx context.Context, c *Conn) error {
	if err := EnsureSchema(ctx, c); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := c.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
		slog.Debug("applied migration", "number", i+1, "dialect", c.Dialect)
	}

	return nil
}
