package postgres

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"creditpipe/internal/config"
)

const (
	pingTimeout     = 5 * time.Second
	connMaxLifetime = 30 * time.Minute
)

// NewDB opens the PostgreSQL pool and verifies connectivity before handing
// it out, so a bad DSN fails at startup instead of on the first query.
func NewDB(ctx context.Context, cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	log.Printf("postgres: connected to %s:%d/%s (max_open=%d)", cfg.Host, cfg.Port, cfg.Name, cfg.MaxOpen)
	return db, nil
}
