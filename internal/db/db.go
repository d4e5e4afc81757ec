package db

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Connect opens a Postgres connection pool through the pgx stdlib adapter
// and wraps it in sqlx for struct scanning.
func Connect(dsn string) (*sqlx.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// Fail fast at startup if Postgres is unreachable.
	cfg.ConnectTimeout = 5 * time.Second

	database := sqlx.NewDb(stdlib.OpenDB(*cfg), "pgx")

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(25)
	database.SetConnMaxLifetime(5 * time.Minute)

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return database, nil
}

// RunMigrations applies the schema. Statements are idempotent so they run on
// every startup.
func RunMigrations(database *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'viewer',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			amount NUMERIC(10,2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			receiver_name TEXT NOT NULL,
			receiver_email TEXT,
			description TEXT,
			transaction_id TEXT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_created_at ON payments (created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status);`,
	}

	for _, q := range queries {
		if _, err := database.Exec(q); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
