package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"housing-explorer/models"
)

// CSVSource reads the listing dataset from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source for the file at path. The file is opened on Read.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Read parses the whole file. Rows with a different number of fields than
// the header are kept as-is; the cleaner drops them as incomplete.
func (c *CSVSource) Read(ctx context.Context) (*models.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", c.path, err)
	}
	raw.Source = c.path
	return raw, nil
}

// Close is a no-op; the file is closed at the end of Read.
func (c *CSVSource) Close() error { return nil }

// ReadCSV parses header and rows from r.
func ReadCSV(r io.Reader) (*models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return &models.RawTable{Header: header, Rows: rows}, nil
}
