package model

import (
	"context"
	"io"
)

// Embedder maps text to fixed-dimension dense vectors.
type Embedder interface {
	// Embed returns the embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one embedding per input, order-preserving.
	// Implementations keep the model loaded for the whole batch rather
	// than reloading per item.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding dimensionality, 0 if not yet known
	Dimension() int
}

// Generator runs a text-generation model over a prompt.
type Generator interface {
	// Generate produces text for the request. Output never exceeds
	// req.MaxTokens; a context deadline bounds wall-clock time.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// HealthChecker provides health checking capabilities.
type HealthChecker interface {
	// HealthCheck verifies provider connectivity and status
	HealthCheck(ctx context.Context) error
}

// Provider combines embedding and generation behind one model backend.
// Providers are created once at startup, reused across calls, and
// released with Close on shutdown.
type Provider interface {
	// Name returns the provider name (e.g., "ollama", "openai")
	Name() string

	Embedder
	Generator
	HealthChecker
	io.Closer
}
