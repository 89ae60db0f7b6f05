package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/addrfmt/internal/address"
)

// Header is the column layout written by CSVWriter
var Header = []string{
	"id", "title", "name", "lastname", "firstname", "compl1", "compl2",
	"kind", "street", "house_number", "po_box", "postal_code", "postal_suffix",
	"postal_long", "city", "country", "iban", "account_owner",
}

// CSVWriter writes structured addresses as CSV. It is safe for concurrent use.
type CSVWriter struct {
	mu      sync.Mutex
	w       *csv.Writer
	started bool
	written int
}

// NewCSVWriter wraps w
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Write appends one record, emitting the header first
func (cw *CSVWriter) Write(_ context.Context, addr address.StructuredAddress) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.started {
		if err := cw.w.Write(Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		cw.started = true
	}
	if err := cw.w.Write(Row(addr)); err != nil {
		return fmt.Errorf("failed to write address %s: %w", addr.ID, err)
	}
	cw.written++
	return nil
}

// Flush flushes buffered rows and reports any write error
func (cw *CSVWriter) Flush() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.w.Flush()
	return cw.w.Error()
}

// Written returns the number of records written so far
func (cw *CSVWriter) Written() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.written
}

// Row renders addr in Header order; absent values become empty cells
func Row(addr address.StructuredAddress) []string {
	var kind, street, house, box string
	switch a := addr.Address.(type) {
	case address.PoBox:
		kind, box = "po_box", a.BoxNumber
	case address.Street:
		kind, street, house = "street", a.Street, a.HouseNumber
	default:
		kind = "street"
	}

	suffix := ""
	if addr.Postal.Suffix != nil {
		suffix = strconv.Itoa(*addr.Postal.Suffix)
	}
	code, long := "", ""
	if addr.Postal.Code != 0 {
		code = strconv.Itoa(addr.Postal.Code)
		long = strconv.Itoa(addr.Postal.Long())
	}

	return []string{
		addr.ID, cell(addr.Title), cell(addr.Name), cell(addr.Lastname), cell(addr.Firstname),
		cell(addr.Compl1), cell(addr.Compl2), kind, street, house, box, code, suffix, long,
		addr.City, addr.Country, cell(addr.IBAN), cell(addr.AccountOwner),
	}
}

func cell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
