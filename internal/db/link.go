package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/addrfmt/internal/config"
)

// Linker re-points a foreign key at the formatted row created for an id
type Linker struct {
	db  *sqlx.DB
	sql string
}

// NewLinker creates a link updater for the given link and formatted tables
func NewLinker(db *sqlx.DB, link config.LinkTable, ref config.FormattedTable) *Linker {
	return &Linker{db: db, sql: updateLinkSQL(link, ref)}
}

// Update sets the reference for the source row id. It returns the number of
// link rows touched.
func (l *Linker) Update(ctx context.Context, id string) (int64, error) {
	res, err := l.db.ExecContext(ctx, l.sql, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update link for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows for %s: %w", id, err)
	}
	return n, nil
}
