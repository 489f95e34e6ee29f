package db

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx with database/sql
	"github.com/jmoiron/sqlx"
)

type Config struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// NewPostgres opens and pings a Postgres connection pool.
func NewPostgres(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id           BIGSERIAL PRIMARY KEY,
    nonce        TEXT        NOT NULL,
    table_name   TEXT        NOT NULL,
    waiter       TEXT        NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS products (
    id        BIGSERIAL PRIMARY KEY,
    order_id  BIGINT         NOT NULL REFERENCES orders (id),
    name      TEXT           NOT NULL,
    price     NUMERIC(10, 2) NOT NULL,
    category  TEXT           NOT NULL,
    amount    BIGINT         NOT NULL,
    comment   TEXT           NOT NULL DEFAULT '',
    completed BOOLEAN        NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_orders_completed_at ON orders (completed_at);
CREATE INDEX IF NOT EXISTS idx_products_order_id ON products (order_id);
`

// ApplySchema creates the order/product tables if they do not exist yet.
// Nonces deliberately carry no unique index: duplicate suppression is a
// best-effort check over open orders, not a store constraint.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
