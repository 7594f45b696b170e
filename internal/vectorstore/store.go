package vectorstore

import "errors"

// ErrIndexUnavailable indicates the backing storage could not be opened.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// VectorStore defines the interface for vector index backends.
// Upsert is idempotent: re-issuing with identical arguments is a no-op
// in effect. Query returns up to topK entries ranked by descending
// similarity to the given vector.
type VectorStore interface {
	Upsert(id, text string, vector []float32) error
	Query(vector []float32, topK int) ([]SearchResult, error)
	Close() error
}

// SearchResult represents a single query hit.
type SearchResult struct {
	ID    string
	Score float32
	Text  string
}
