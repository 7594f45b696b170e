package rag

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yildizm/ReviewRAG/internal/corpus"
	"github.com/yildizm/ReviewRAG/internal/logger"
	"github.com/yildizm/ReviewRAG/internal/model"
	"github.com/yildizm/ReviewRAG/internal/vectorstore"
)

const (
	defaultBatchSize = 32
	defaultWorkers   = 4
)

// Indexer builds the vector index from a review corpus: load the CSV,
// embed every review, and upsert the vectors keyed by row position.
// Re-running over the same corpus replaces entries in place rather than
// duplicating them.
type Indexer struct {
	loader    *corpus.Loader
	embedder  model.Embedder
	store     vectorstore.VectorStore
	batchSize int
	workers   int
	logger    *logger.Logger
}

// IndexerOption configures an Indexer
type IndexerOption func(*Indexer)

// WithBatchSize sets how many reviews each embedding batch carries
func WithBatchSize(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// WithWorkers sets how many embedding batches run concurrently
func WithWorkers(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// NewIndexer creates an indexer over the given loader, embedder and store
func NewIndexer(loader *corpus.Loader, embedder model.Embedder, store vectorstore.VectorStore, log *logger.Logger, options ...IndexerOption) *Indexer {
	if log == nil {
		log = logger.New("indexer", nil)
	}
	ix := &Indexer{
		loader:    loader,
		embedder:  embedder,
		store:     store,
		batchSize: defaultBatchSize,
		workers:   defaultWorkers,
		logger:    log,
	}
	for _, option := range options {
		option(ix)
	}
	return ix
}

// Build loads the corpus at path, embeds it and populates the store.
// It returns the number of reviews indexed. Corpus errors propagate
// unwrapped so callers can match them with errors.Is/As.
func (ix *Indexer) Build(ctx context.Context, path string) (int, error) {
	start := time.Now()

	docs, err := ix.loader.Load(path)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		ix.logger.Warn("corpus %s holds no reviews, index left empty", path)
		return 0, nil
	}

	vectors, err := ix.embedAll(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("embed corpus: %w", err)
	}

	for i, doc := range docs {
		if err := ix.store.Upsert(strconv.Itoa(doc.ID), doc.Text, vectors[i]); err != nil {
			return 0, fmt.Errorf("upsert review %d: %w", doc.ID, err)
		}
	}

	if flusher, ok := ix.store.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			return 0, fmt.Errorf("flush index: %w", err)
		}
	}

	ix.logger.InfoWithFields("corpus indexed", []logger.Field{
		logger.Count(len(docs)),
		logger.Duration(time.Since(start)),
	})
	return len(docs), nil
}

// embedAll embeds the corpus in batches, at most ix.workers batches in
// flight at once. Each batch writes into its own slice region, so the
// result preserves corpus order without further coordination.
func (ix *Indexer) embedAll(ctx context.Context, docs []corpus.Document) ([][]float32, error) {
	vectors := make([][]float32, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)

	for offset := 0; offset < len(docs); offset += ix.batchSize {
		end := offset + ix.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		offset, end := offset, end

		g.Go(func() error {
			texts := make([]string, 0, end-offset)
			for _, doc := range docs[offset:end] {
				texts = append(texts, doc.Text)
			}
			batch, err := ix.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return err
			}
			if len(batch) != len(texts) {
				return fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), len(texts))
			}
			copy(vectors[offset:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
