package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Corpus   CorpusConfig   `yaml:"corpus" json:"corpus"`
	Index    IndexConfig    `yaml:"index" json:"index"`
	Model    ModelConfig    `yaml:"model" json:"model"`
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Output   OutputConfig   `yaml:"output" json:"output"`
}

// CorpusConfig configures the review corpus source
type CorpusConfig struct {
	Path   string `yaml:"path" json:"path"`     // CSV file holding the reviews
	Column string `yaml:"column" json:"column"` // text column: header name or numeric index
}

// IndexConfig configures the vector index backend
type IndexConfig struct {
	Backend      string  `yaml:"backend" json:"backend"`             // disk|qdrant
	Dir          string  `yaml:"dir" json:"dir"`                     // disk backend storage directory
	Collection   string  `yaml:"collection" json:"collection"`       // collection name
	MinScore     float64 `yaml:"min_score" json:"min_score"`         // similarity floor, 0 disables
	QdrantURL    string  `yaml:"qdrant_url" json:"qdrant_url"`       // qdrant backend endpoint
	QdrantAPIKey string  `yaml:"qdrant_api_key" json:"qdrant_api_key"`
}

// ModelConfig configures the model provider
type ModelConfig struct {
	Provider        string        `yaml:"provider" json:"provider"` // ollama|openai
	Endpoint        string        `yaml:"endpoint" json:"endpoint"` // API endpoint URL
	APIKey          string        `yaml:"api_key" json:"api_key"`
	GenerationModel string        `yaml:"generation_model" json:"generation_model"`
	EmbeddingModel  string        `yaml:"embedding_model" json:"embedding_model"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"` // per-request timeout
	Temperature     float64       `yaml:"temperature" json:"temperature"`
}

// PipelineConfig configures retrieval and generation behavior
type PipelineConfig struct {
	TopK              int           `yaml:"top_k" json:"top_k"`                           // reviews retrieved per query
	MaxTokens         int           `yaml:"max_tokens" json:"max_tokens"`                 // generation output cap
	GenerationTimeout time.Duration `yaml:"generation_timeout" json:"generation_timeout"` // wall-clock bound per answer
	BatchSize         int           `yaml:"batch_size" json:"batch_size"`                 // reviews per embedding batch
	Workers           int           `yaml:"workers" json:"workers"`                       // concurrent embedding batches
}

// ServerConfig configures the HTTP answer endpoint
type ServerConfig struct {
	Listen string `yaml:"listen" json:"listen"` // address for the serve command
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Corpus: CorpusConfig{
			Path:   "./reviews.csv",
			Column: "review",
		},
		Index: IndexConfig{
			Backend:    "disk",
			Dir:        "~/.cache/reviewrag",
			Collection: "catalog",
			QdrantURL:  "http://localhost:6333",
		},
		Model: ModelConfig{
			Provider:        "ollama",
			Endpoint:        "http://localhost:11434",
			GenerationModel: "llama3.2",
			EmbeddingModel:  "nomic-embed-text",
			Timeout:         60 * time.Second,
			Temperature:     0.2,
		},
		Pipeline: PipelineConfig{
			TopK:              5,
			MaxTokens:         512,
			GenerationTimeout: 120 * time.Second,
			BatchSize:         32,
			Workers:           4,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8080",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateIndexConfig(); err != nil {
		return err
	}
	if err := c.validateModelConfig(); err != nil {
		return err
	}
	if err := c.validatePipelineConfig(); err != nil {
		return err
	}
	return c.validateOutputConfig()
}

func (c *Config) validateIndexConfig() error {
	if c.Index.Backend != "" {
		validBackends := map[string]bool{
			"disk":   true,
			"qdrant": true,
		}
		if !validBackends[c.Index.Backend] {
			return fmt.Errorf("invalid index backend: %s (must be one of: disk, qdrant)", c.Index.Backend)
		}
	}
	if c.Index.Collection == "" {
		return fmt.Errorf("index collection must not be empty")
	}
	if c.Index.MinScore < 0 || c.Index.MinScore > 1 {
		return fmt.Errorf("min_score must be within [0, 1]")
	}
	return nil
}

func (c *Config) validateModelConfig() error {
	if c.Model.Provider != "" {
		validProviders := map[string]bool{
			"ollama": true,
			"openai": true,
		}
		if !validProviders[c.Model.Provider] {
			return fmt.Errorf("invalid model provider: %s (must be one of: ollama, openai)", c.Model.Provider)
		}
	}
	if c.Model.Timeout < 0 {
		return fmt.Errorf("model timeout must be non-negative")
	}
	return nil
}

func (c *Config) validatePipelineConfig() error {
	if c.Pipeline.TopK < 1 {
		return fmt.Errorf("top_k must be greater than 0")
	}
	if c.Pipeline.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be greater than 0")
	}
	if c.Pipeline.GenerationTimeout < 0 {
		return fmt.Errorf("generation_timeout must be non-negative")
	}
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("batch_size must be greater than 0")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("workers must be greater than 0")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json": true,
			"text": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}
