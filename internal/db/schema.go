package db

import (
	"context"
	"fmt"
)

// sqliteSchema is the full database schema for SQLite.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE CHECK (name <> '')
)`,
	`CREATE TABLE IF NOT EXISTS games (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    image         TEXT NOT NULL,
    stock_total   INTEGER NOT NULL CHECK (stock_total > 0),
    category_id   INTEGER NOT NULL REFERENCES categories(id),
    price_per_day INTEGER NOT NULL CHECK (price_per_day > 0)
)`,
	`CREATE TABLE IF NOT EXISTS customers (
    id       INTEGER PRIMARY KEY,
    name     TEXT NOT NULL,
    phone    TEXT NOT NULL,
    cpf      TEXT NOT NULL UNIQUE,
    birthday DATE NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS rentals (
    id             INTEGER PRIMARY KEY,
    customer_id    INTEGER NOT NULL REFERENCES customers(id),
    game_id        INTEGER NOT NULL REFERENCES games(id),
    rent_date      DATE NOT NULL,
    days_rented    INTEGER NOT NULL CHECK (days_rented > 0),
    return_date    DATE,
    original_price INTEGER NOT NULL CHECK (original_price > 0),
    delay_fee      INTEGER CHECK (delay_fee >= 0)
)`,
	`CREATE TABLE IF NOT EXISTS staff (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`,
}

// postgresSchema mirrors sqliteSchema for PostgreSQL.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE CHECK (name <> '')
)`,
	`CREATE TABLE IF NOT EXISTS games (
    id            BIGSERIAL PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    image         TEXT NOT NULL,
    stock_total   INTEGER NOT NULL CHECK (stock_total > 0),
    category_id   BIGINT NOT NULL REFERENCES categories(id),
    price_per_day BIGINT NOT NULL CHECK (price_per_day > 0)
)`,
	`CREATE TABLE IF NOT EXISTS customers (
    id       BIGSERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    phone    TEXT NOT NULL,
    cpf      TEXT NOT NULL UNIQUE,
    birthday DATE NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS rentals (
    id             BIGSERIAL PRIMARY KEY,
    customer_id    BIGINT NOT NULL REFERENCES customers(id),
    game_id        BIGINT NOT NULL REFERENCES games(id),
    rent_date      DATE NOT NULL,
    days_rented    INTEGER NOT NULL CHECK (days_rented > 0),
    return_date    DATE,
    original_price BIGINT NOT NULL CHECK (original_price > 0),
    delay_fee      BIGINT CHECK (delay_fee >= 0)
)`,
	`CREATE TABLE IF NOT EXISTS staff (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`,
}

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(ctx context.Context, c *Conn) error {
	stmts := sqliteSchema
	if c.Dialect == Postgres {
		stmts = postgresSchema
	}
	for _, s := range stmts {
		if _, err := c.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
