package ollama

import (
	"time"

	"github.com/yildizm/ReviewRAG/internal/model"
)

// Config holds Ollama-specific configuration
type Config struct {
	// BaseURL is the Ollama API endpoint
	BaseURL string `json:"base_url"`

	// GenerationModel is the model used for /api/generate
	GenerationModel string `json:"generation_model"`

	// EmbeddingModel is the model used for /api/embeddings
	EmbeddingModel string `json:"embedding_model"`

	// Timeout for HTTP requests
	Timeout time.Duration `json:"timeout"`

	// MaxTokens is the default generation cap
	MaxTokens int `json:"max_tokens"`

	// Temperature for generation requests
	Temperature float64 `json:"temperature"`

	// KeepAlive keeps the model loaded between calls, avoiding reload
	// overhead across a batch (e.g. "5m")
	KeepAlive string `json:"keep_alive"`
}

// DefaultConfig returns a default Ollama configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:11434",
		GenerationModel: "llama3.2",
		EmbeddingModel:  "nomic-embed-text",
		Timeout:         60 * time.Second,
		MaxTokens:       1024,
		Temperature:     0.2,
		KeepAlive:       "5m",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return model.NewConfigurationError("ollama", "base_url", "base URL is required")
	}

	if c.GenerationModel == "" {
		return model.NewConfigurationError("ollama", "generation_model", "generation model is required")
	}

	if c.EmbeddingModel == "" {
		return model.NewConfigurationError("ollama", "embedding_model", "embedding model is required")
	}

	if c.Timeout <= 0 {
		return model.NewConfigurationError("ollama", "timeout", "timeout must be positive")
	}

	if c.MaxTokens <= 0 {
		return model.NewConfigurationError("ollama", "max_tokens", "max tokens must be positive")
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return model.NewConfigurationError("ollama", "temperature", "temperature must be between 0 and 1")
	}

	return nil
}

// FromProviderConfig creates an Ollama config from a generic provider config
func FromProviderConfig(pc *model.ProviderConfig) *Config {
	config := DefaultConfig()
	if pc == nil {
		return config
	}

	if pc.BaseURL != "" {
		config.BaseURL = pc.BaseURL
	}
	if pc.GenerationModel != "" {
		config.GenerationModel = pc.GenerationModel
	}
	if pc.EmbeddingModel != "" {
		config.EmbeddingModel = pc.EmbeddingModel
	}
	if pc.MaxTokens > 0 {
		config.MaxTokens = pc.MaxTokens
	}
	if pc.Temperature > 0 {
		config.Temperature = pc.Temperature
	}
	if pc.Timeout > 0 {
		config.Timeout = pc.Timeout
	}

	return config
}
