package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yildizm/ReviewRAG/internal/config"
	"github.com/yildizm/ReviewRAG/internal/corpus"
	"github.com/yildizm/ReviewRAG/internal/model"
	"github.com/yildizm/ReviewRAG/internal/model/providers/ollama"
	"github.com/yildizm/ReviewRAG/internal/model/providers/openai"
	"github.com/yildizm/ReviewRAG/internal/rag"
	"github.com/yildizm/ReviewRAG/internal/vectorstore"
	"github.com/yildizm/ReviewRAG/internal/vectorstore/qdrant"
)

var registerProvidersOnce sync.Once

// registerProviders makes all built-in providers available by name
func registerProviders() {
	registerProvidersOnce.Do(func() {
		if err := ollama.Register(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if err := openai.Register(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	})
}

// createProvider creates a model provider based on configuration.
func createProvider(cfg *config.ModelConfig) (model.Provider, error) {
	registerProviders()

	name := strings.ToLower(cfg.Provider)
	if name == "" {
		name = "ollama"
	}

	pc := &model.ProviderConfig{
		Name:            name,
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.Endpoint,
		GenerationModel: cfg.GenerationModel,
		EmbeddingModel:  cfg.EmbeddingModel,
		Temperature:     cfg.Temperature,
		Timeout:         cfg.Timeout,
	}

	if name == "openai" {
		if pc.APIKey == "" {
			pc.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		// The config endpoint default is tuned for ollama; never point
		// the openai client at it
		if pc.BaseURL == "" || strings.Contains(pc.BaseURL, "11434") {
			pc.BaseURL = ""
		}
	}

	provider, err := model.OpenProvider(name, pc)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// openStore opens the configured vector index backend.
func openStore(cfg *config.IndexConfig) (vectorstore.VectorStore, error) {
	switch cfg.Backend {
	case "qdrant":
		return qdrant.New(qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.Collection,
		}), nil
	case "disk", "":
		options := []vectorstore.DiskStoreOption{vectorstore.WithNormalization()}
		if cfg.MinScore > 0 {
			options = append(options, vectorstore.WithMinScore(float32(cfg.MinScore)))
		}
		store, err := vectorstore.OpenDiskStore(expandHome(cfg.Dir), cfg.Collection, options...)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", cfg.Backend)
	}
}

// pipelineComponents bundles everything a command needs to answer queries.
type pipelineComponents struct {
	provider     model.Provider
	store        vectorstore.VectorStore
	orchestrator *rag.Orchestrator
}

func (p *pipelineComponents) close() {
	if p.store != nil {
		if err := p.store.Close(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close index: %v\n", err)
		}
	}
	if p.provider != nil {
		if err := p.provider.Close(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close provider: %v\n", err)
		}
	}
}

// buildPipeline wires provider, index and orchestrator from config.
func buildPipeline(cfg *config.Config) (*pipelineComponents, error) {
	provider, err := createProvider(&cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create model provider: %w", err)
	}

	store, err := openStore(&cfg.Index)
	if err != nil {
		_ = provider.Close()
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	retriever := rag.NewRetriever(provider, store, GetLogger("retriever"))
	orchestrator := rag.NewOrchestrator(retriever, provider, rag.Options{
		TopK:        cfg.Pipeline.TopK,
		MaxTokens:   cfg.Pipeline.MaxTokens,
		Timeout:     cfg.Pipeline.GenerationTimeout,
		Temperature: cfg.Model.Temperature,
	}, GetLogger("pipeline"))

	return &pipelineComponents{
		provider:     provider,
		store:        store,
		orchestrator: orchestrator,
	}, nil
}

// buildIndexer wires the corpus loader and embedding indexer from config.
func buildIndexer(cfg *config.Config) (*rag.Indexer, *pipelineComponents, error) {
	provider, err := createProvider(&cfg.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model provider: %w", err)
	}

	store, err := openStore(&cfg.Index)
	if err != nil {
		_ = provider.Close()
		return nil, nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	loader := corpus.NewLoader(cfg.Corpus.Column)
	indexer := rag.NewIndexer(loader, provider, store, GetLogger("indexer"),
		rag.WithBatchSize(cfg.Pipeline.BatchSize),
		rag.WithWorkers(cfg.Pipeline.Workers))

	return indexer, &pipelineComponents{provider: provider, store: store}, nil
}

// expandHome expands ~ to the user home directory
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
