package formatter

import (
	"fmt"

	"github.com/yildizm/ReviewRAG/internal/rag"
)

// Result is a rendered unit of output: the query plus its answer.
type Result struct {
	Query  string
	Answer *rag.Answer
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result *Result) ([]byte, error)
}

// New returns the formatter for the given format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
