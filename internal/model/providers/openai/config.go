package openai

import (
	"time"

	"github.com/yildizm/ReviewRAG/internal/model"
)

// DefaultMaxTokens is the default generation cap
const DefaultMaxTokens = 1024

// Config holds OpenAI-specific configuration. Any OpenAI-compatible
// endpoint works through BaseURL.
type Config struct {
	// APIKey for authentication
	APIKey string `json:"api_key"`

	// BaseURL is the API endpoint
	BaseURL string `json:"base_url"`

	// GenerationModel is the chat completion model
	GenerationModel string `json:"generation_model"`

	// EmbeddingModel is the embeddings model
	EmbeddingModel string `json:"embedding_model"`

	// Timeout for HTTP requests
	Timeout time.Duration `json:"timeout"`

	// MaxTokens is the default generation cap
	MaxTokens int `json:"max_tokens"`

	// Temperature for generation requests
	Temperature float64 `json:"temperature"`
}

// DefaultConfig returns a default OpenAI configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://api.openai.com",
		GenerationModel: "gpt-4o-mini",
		EmbeddingModel:  "text-embedding-3-small",
		Timeout:         60 * time.Second,
		MaxTokens:       DefaultMaxTokens,
		Temperature:     0.2,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return model.NewConfigurationError("openai", "api_key", "API key is required")
	}

	if c.BaseURL == "" {
		return model.NewConfigurationError("openai", "base_url", "base URL is required")
	}

	if c.GenerationModel == "" {
		return model.NewConfigurationError("openai", "generation_model", "generation model is required")
	}

	if c.EmbeddingModel == "" {
		return model.NewConfigurationError("openai", "embedding_model", "embedding model is required")
	}

	if c.Timeout <= 0 {
		return model.NewConfigurationError("openai", "timeout", "timeout must be positive")
	}

	return nil
}

// FromProviderConfig creates an OpenAI config from a generic provider config
func FromProviderConfig(pc *model.ProviderConfig) *Config {
	config := DefaultConfig()
	if pc == nil {
		return config
	}

	if pc.APIKey != "" {
		config.APIKey = pc.APIKey
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
