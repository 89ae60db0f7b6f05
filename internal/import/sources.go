package import_pkg

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/addrfmt/internal/address"
)

// FileSource reads unstructured addresses from a CSV file
type FileSource struct {
	Filename string
	Reader   *CSVReader
}

// NewFileSource creates a source for filename with a header row
func NewFileSource(filename string) *FileSource {
	return &FileSource{Filename: filename, Reader: NewCSVReader()}
}

// Read opens the file and parses all records
func (fs *FileSource) Read(ctx context.Context) ([]address.UnstructuredAddress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(fs.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fs.Filename, err)
	}
	defer file.Close()

	addrs, stats, err := fs.Reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fs.Filename, err)
	}
	log.Printf("Import of %s complete: %d records read, %d errors", fs.Filename, stats.Imported, stats.Errors)
	return addrs, nil
}
