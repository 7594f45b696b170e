package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrSourceNotFound indicates the corpus source file could not be opened.
var ErrSourceNotFound = errors.New("corpus source not found")

// MalformedRecordError indicates a row is missing the configured text column.
type MalformedRecordError struct {
	// Row is the zero-based data row index (header excluded)
	Row int

	// Column is the resolved zero-based column index
	Column int

	// Fields is the number of fields the row actually had
	Fields int
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at row %d: column %d missing (row has %d fields)",
		e.Row, e.Column, e.Fields)
}

// Document is a single free-text record from the corpus.
// Documents are immutable once loaded; ID is the zero-based row position.
type Document struct {
	ID   int
	Text string
}

// Loader reads delimited tabular corpus files with a header row.
type Loader struct {
	// Comma is the field delimiter, ',' when zero
	Comma rune

	// Column selects the text column: a header name, or a numeric index
	// when no header matches. Empty selects column 0.
	Column string
}

// NewLoader creates a loader selecting the given text column.
func NewLoader(column string) *Loader {
	return &Loader{Column: column}
}

// Load reads all data rows from the file at path, in file order.
// The header row is consumed to resolve the column and is not returned.
func (l *Loader) Load(path string) ([]Document, error) {
	f, err := os.Open(path) // #nosec G304 -- path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	defer func() { _ = f.Close() }()

	return l.read(f)
}

func (l *Loader) read(r io.Reader) ([]Document, error) {
	cr := csv.NewReader(r)
	if l.Comma != 0 {
		cr.Comma = l.Comma
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col, err := resolveColumn(header, l.Column)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if col >= len(record) {
			return nil, &MalformedRecordError{Row: row, Column: col, Fields: len(record)}
		}
		docs = append(docs, Document{ID: row, Text: record[col]})
	}

	return docs, nil
}

// resolveColumn matches the selector against header names first, then
// falls back to a numeric index.
func resolveColumn(header []string, selector string) (int, error) {
	if selector == "" {
		return 0, nil
	}
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), selector) {
			return i, nil
		}
	}

	var idx int
	if _, err := fmt.Sscanf(selector, "%d", &idx); err == nil && idx >= 0 && idx < len(header) {
		return idx, nil
	}
	return 0, fmt.Errorf("column %q not found in header %v", selector, header)
}
