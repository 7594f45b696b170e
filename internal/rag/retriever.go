package rag

import (
	"context"
	"fmt"

	"github.com/yildizm/ReviewRAG/internal/logger"
	"github.com/yildizm/ReviewRAG/internal/model"
	"github.com/yildizm/ReviewRAG/internal/vectorstore"
)

// Retriever embeds a query and searches the vector index for the most
// similar reviews. Every call embeds the query fresh; nothing is cached
// between calls.
type Retriever struct {
	embedder model.Embedder
	store    vectorstore.VectorStore
	logger   *logger.Logger
}

// NewRetriever creates a retriever over the given embedder and index
func NewRetriever(embedder model.Embedder, store vectorstore.VectorStore, log *logger.Logger) *Retriever {
	if log == nil {
		log = logger.New("retriever", nil)
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   log,
	}
}

// Retrieve returns up to topK reviews ranked by descending similarity
// to the query. Fewer than topK results is not an error; the index may
// simply hold fewer entries.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]vectorstore.SearchResult, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.store.Query(vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	r.logger.DebugWithFields("retrieved reviews", []logger.Field{
		logger.Count(len(results)),
		logger.F("top_k", topK),
	})
	return results, nil
}
