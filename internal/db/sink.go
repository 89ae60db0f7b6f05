package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/addrfmt/internal/address"
	"github.com/addrfmt/internal/config"
)

// Sink writes structured addresses into the mapped formatted table
type Sink struct {
	db     *sqlx.DB
	table  config.FormattedTable
	insert string
	now    func() time.Time
}

// NewSink creates a formatted-table writer
func NewSink(db *sqlx.DB, table config.FormattedTable) *Sink {
	return &Sink{db: db, table: table, insert: insertFormattedSQL(table), now: time.Now}
}

// EnsureTable creates the formatted table when it does not exist yet
func (s *Sink) EnsureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createFormattedSQL(s.table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table.Name, err)
	}
	return nil
}

// Write inserts one structured address
func (s *Sink) Write(ctx context.Context, addr address.StructuredAddress) error {
	if _, err := s.db.NamedExecContext(ctx, s.insert, insertArgs(s.table, addr, s.now())); err != nil {
		return fmt.Errorf("failed to insert address %s: %w", addr.ID, err)
	}
	return nil
}
