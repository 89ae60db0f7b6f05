package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/addrfmt/internal/config"
)

// Connection holds the database connection
type Connection struct {
	DB *sqlx.DB
}

// DSN builds the lib/pq connection string from DB_* settings. DB_PASSWORD
// has no default.
func DSN() (string, error) {
	password, err := config.Require("DB_PASSWORD")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.GetEnv("DB_HOST", "localhost"),
		config.GetEnv("DB_PORT", "5432"),
		config.GetEnv("DB_USER", "postgres"),
		password,
		config.GetEnv("DB_NAME", "addresses"),
		config.GetEnv("DB_SSLMODE", "disable")), nil
}

// NewConnection opens and pings a Postgres connection
func NewConnection(ctx context.Context) (*Connection, error) {
	dsn, err := DSN()
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	maxConns := config.GetEnvInt("DB_MAX_CONNECTIONS", 20)
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(time.Hour)

	return &Connection{DB: db}, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}

// CountRows returns the number of rows in table
func CountRows(ctx context.Context, db *sqlx.DB, table string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+pq.QuoteIdentifier(table)); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
