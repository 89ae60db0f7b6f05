package import_pkg

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/addrfmt/internal/address"
)

// Column layout: id, line1..line6, iban, account_owner. Trailing columns
// may be omitted.
const (
	colID           = 0
	colFirstLine    = 1
	colIBAN         = colFirstLine + address.LineCount
	colAccountOwner = colIBAN + 1
)

// CSVReader reads unstructured addresses from CSV
type CSVReader struct {
	// Header skips the first record when set
	Header bool
	// Comma overrides the field delimiter; zero means ','
	Comma rune
}

// NewCSVReader creates a reader expecting a header row
func NewCSVReader() *CSVReader {
	return &CSVReader{Header: true}
}

// ImportStats counts what a read produced
type ImportStats struct {
	Imported int
	Errors   int
}

// Read parses every record. Bad records are logged with their line number
// and counted, never fatal.
func (cr *CSVReader) Read(r io.Reader) ([]address.UnstructuredAddress, ImportStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if cr.Comma != 0 {
		reader.Comma = cr.Comma
	}

	var stats ImportStats
	if cr.Header {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, stats, nil
			}
			return nil, stats, fmt.Errorf("failed to read header: %w", err)
		}
	}

	var out []address.UnstructuredAddress
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Error reading CSV record: %v", err)
			stats.Errors++
			continue
		}
		line, _ := reader.FieldPos(0)

		addr, err := mapRecord(record)
		if err != nil {
			log.Printf("Error mapping CSV record at line %d: %v", line, err)
			stats.Errors++
			continue
		}
		out = append(out, addr)
		stats.Imported++
	}
	return out, stats, nil
}

func mapRecord(record []string) (address.UnstructuredAddress, error) {
	if len(record) == 0 {
		return address.UnstructuredAddress{}, fmt.Errorf("empty record")
	}

	lines := make([]string, 0, address.LineCount)
	for i := colFirstLine; i < colIBAN && i < len(record); i++ {
		lines = append(lines, record[i])
	}

	var opts []address.Option
	if len(record) > colIBAN && strings.TrimSpace(record[colIBAN]) != "" {
		opts = append(opts, address.WithIBAN(record[colIBAN]))
	}
	if len(record) > colAccountOwner && strings.TrimSpace(record[colAccountOwner]) != "" {
		opts = append(opts, address.WithAccountOwner(record[colAccountOwner]))
	}
	return address.NewUnstructuredAddress(record[colID], lines, opts...)
}
