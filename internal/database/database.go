// internal/database/database.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB wraps the pgx connection pool. One instance is shared by every
// game; pgxpool handles the concurrency.
type DB struct {
	Pool *pgxpool.Pool
	log  *logrus.Logger
}

// Connect opens the pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string, logger *logrus.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	logger.Info("connected to postgres")
	return &DB{Pool: pool, log: logger}, nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate applies the schema. Idempotent; runs at startup.
func (db *DB) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	wins          INTEGER NOT NULL DEFAULT 0,
	losses        INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS games (
	id         UUID PRIMARY KEY,
	host_id    UUID NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS players (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL REFERENCES users(id),
	game_id      UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	display_name TEXT NOT NULL,
	seat         INTEGER NOT NULL,
	is_host      BOOLEAN NOT NULL DEFAULT FALSE,
	is_active    BOOLEAN NOT NULL DEFAULT TRUE,
	UNIQUE (game_id, seat)
);

CREATE TABLE IF NOT EXISTS game_data (
	game_id       UUID PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
	legal_color   SMALLINT NOT NULL,
	legal_content SMALLINT NOT NULL,
	pending_draw  INTEGER NOT NULL,
	pending_skip  INTEGER NOT NULL,
	clockwise     BOOLEAN NOT NULL,
	turn_seat     INTEGER NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS game_piles (
	game_id    UUID PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
	draw_pile  JSONB NOT NULL,
	discard    JSONB NOT NULL,
	hands      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
