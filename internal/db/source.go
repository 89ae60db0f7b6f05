package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/addrfmt/internal/address"
	"github.com/addrfmt/internal/config"
)

// Source reads unstructured addresses from the mapped raw table
type Source struct {
	db    *sqlx.DB
	table config.RawTable
	limit int
}

// NewSource creates a raw-table reader. limit <= 0 reads every row.
func NewSource(db *sqlx.DB, table config.RawTable, limit int) *Source {
	return &Source{db: db, table: table, limit: limit}
}

// Read loads all rows. Rows without an identifier are logged and skipped.
func (s *Source) Read(ctx context.Context) ([]address.UnstructuredAddress, error) {
	rows, err := s.db.QueryxContext(ctx, selectRawSQL(s.table, s.limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table.Name, err)
	}
	defer rows.Close()

	var out []address.UnstructuredAddress
	rowNum := 0
	for rows.Next() {
		rowNum++
		cells := make([]sql.NullString, address.LineCount+3)
		dest := make([]interface{}, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", rowNum, err)
		}

		rec, err := recordFromCells(cells, s.table)
		if err != nil {
			log.Printf("Skipping row %d of %s: %v", rowNum, s.table.Name, err)
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.table.Name, err)
	}
	return out, nil
}

// recordFromCells builds a record from id, six lines, iban and account owner
func recordFromCells(cells []sql.NullString, t config.RawTable) (address.UnstructuredAddress, error) {
	lines := make([]string, address.LineCount)
	for i := range lines {
		lines[i] = cells[i+1].String
	}

	var opts []address.Option
	if iban := cells[address.LineCount+1]; t.IBAN != "" && iban.Valid {
		opts = append(opts, address.WithIBAN(iban.String))
	}
	if owner := cells[address.LineCount+2]; t.AccountOwner != "" && owner.Valid {
		opts = append(opts, address.WithAccountOwner(owner.String))
	}
	return address.NewUnstructuredAddress(cells[0].String, lines, opts...)
}
