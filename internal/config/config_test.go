package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Index.Backend != "disk" {
		t.Errorf("default index backend = %q, want disk", config.Index.Backend)
	}
	if config.Index.Collection != "catalog" {
		t.Errorf("default collection = %q, want catalog", config.Index.Collection)
	}
	if config.Model.Provider != "ollama" {
		t.Errorf("default provider = %q, want ollama", config.Model.Provider)
	}
	if config.Pipeline.TopK != 5 {
		t.Errorf("default top_k = %d, want 5", config.Pipeline.TopK)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown index backend",
			mutate:  func(c *Config) { c.Index.Backend = "redis" },
			wantErr: true,
		},
		{
			name:    "empty collection",
			mutate:  func(c *Config) { c.Index.Collection = "" },
			wantErr: true,
		},
		{
			name:    "min_score out of range",
			mutate:  func(c *Config) { c.Index.MinScore = 1.5 },
			wantErr: true,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Model.Provider = "anthropic" },
			wantErr: true,
		},
		{
			name:    "zero top_k",
			mutate:  func(c *Config) { c.Pipeline.TopK = 0 },
			wantErr: true,
		},
		{
			name:    "zero max_tokens",
			mutate:  func(c *Config) { c.Pipeline.MaxTokens = 0 },
			wantErr: true,
		},
		{
			name:    "negative generation timeout",
			mutate:  func(c *Config) { c.Pipeline.GenerationTimeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "xml" },
			wantErr: true,
		},
		{
			name:   "qdrant backend",
			mutate: func(c *Config) { c.Index.Backend = "qdrant" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_LoadConfig_CustomPath(t *testing.T) {
	content := `
corpus:
  path: /data/reviews.csv
  column: body
index:
  backend: qdrant
  qdrant_url: http://qdrant:6333
model:
  provider: openai
  api_key: sk-test
pipeline:
  top_k: 3
  generation_timeout: 30s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := NewLoader().LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.Corpus.Path != "/data/reviews.csv" {
		t.Errorf("corpus path = %q", config.Corpus.Path)
	}
	if config.Corpus.Column != "body" {
		t.Errorf("corpus column = %q", config.Corpus.Column)
	}
	if config.Index.Backend != "qdrant" {
		t.Errorf("index backend = %q", config.Index.Backend)
	}
	if config.Model.Provider != "openai" {
		t.Errorf("provider = %q", config.Model.Provider)
	}
	if config.Pipeline.TopK != 3 {
		t.Errorf("top_k = %d", config.Pipeline.TopK)
	}
	if config.Pipeline.GenerationTimeout != 30*time.Second {
		t.Errorf("generation_timeout = %v", config.Pipeline.GenerationTimeout)
	}

	// Unset fields keep their defaults
	if config.Index.Collection != "catalog" {
		t.Errorf("collection should keep default, got %q", config.Index.Collection)
	}
	if config.Pipeline.MaxTokens != 512 {
		t.Errorf("max_tokens should keep default, got %d", config.Pipeline.MaxTokens)
	}
}

func TestLoader_LoadConfig_InvalidPath(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "wrong extension", path: "config.toml"},
		{name: "path traversal", path: "../../etc/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader().LoadConfig(tt.path); err == nil {
				t.Error("expected an error for invalid config path")
			}
		})
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("REVIEWRAG_CORPUS_PATH", "/env/reviews.csv")
	t.Setenv("REVIEWRAG_MODEL_PROVIDER", "openai")
	t.Setenv("REVIEWRAG_MODEL_API_KEY", "sk-env")
	t.Setenv("REVIEWRAG_PIPELINE_TOP_K", "7")
	t.Setenv("REVIEWRAG_PIPELINE_GENERATION_TIMEOUT", "45s")
	t.Setenv("REVIEWRAG_INDEX_MIN_SCORE", "0.25")
	t.Setenv("REVIEWRAG_OUTPUT_VERBOSE", "true")

	config := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(config); err != nil {
		t.Fatalf("applyEnvOverrides() error: %v", err)
	}

	if config.Corpus.Path != "/env/reviews.csv" {
		t.Errorf("corpus path = %q", config.Corpus.Path)
	}
	if config.Model.Provider != "openai" || config.Model.APIKey != "sk-env" {
		t.Errorf("model config not overridden: %+v", config.Model)
	}
	if config.Pipeline.TopK != 7 {
		t.Errorf("top_k = %d, want 7", config.Pipeline.TopK)
	}
	if config.Pipeline.GenerationTimeout != 45*time.Second {
		t.Errorf("generation_timeout = %v", config.Pipeline.GenerationTimeout)
	}
	if config.Index.MinScore != 0.25 {
		t.Errorf("min_score = %v", config.Index.MinScore)
	}
	if !config.Output.Verbose {
		t.Error("verbose should be overridden to true")
	}
}

func TestLoader_EnvOverrides_InvalidValue(t *testing.T) {
	t.Setenv("REVIEWRAG_PIPELINE_TOP_K", "many")

	if err := NewLoader().applyEnvOverrides(DefaultConfig()); err == nil {
		t.Error("expected an error for non-numeric top_k")
	}
}
