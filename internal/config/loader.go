package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.reviewrag.yaml",               // Project-specific config (highest priority)
	"~/.config/reviewrag/config.yaml", // User config
	"/etc/reviewrag/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.reviewrag.yaml
// 4. ~/.config/reviewrag/config.yaml
// 5. /etc/reviewrag/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	// A custom path replaces the whole search list
	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load lowest priority first so later files override earlier ones
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it into config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Corpus Config
		"REVIEWRAG_CORPUS_PATH":   func(v string) error { config.Corpus.Path = v; return nil },
		"REVIEWRAG_CORPUS_COLUMN": func(v string) error { config.Corpus.Column = v; return nil },

		// Index Config
		"REVIEWRAG_INDEX_BACKEND":        func(v string) error { config.Index.Backend = v; return nil },
		"REVIEWRAG_INDEX_DIR":            func(v string) error { config.Index.Dir = v; return nil },
		"REVIEWRAG_INDEX_COLLECTION":     func(v string) error { config.Index.Collection = v; return nil },
		"REVIEWRAG_INDEX_MIN_SCORE":      func(v string) error { return parseFloat(v, &config.Index.MinScore) },
		"REVIEWRAG_INDEX_QDRANT_URL":     func(v string) error { config.Index.QdrantURL = v; return nil },
		"REVIEWRAG_INDEX_QDRANT_API_KEY": func(v string) error { config.Index.QdrantAPIKey = v; return nil },

		// Model Config
		"REVIEWRAG_MODEL_PROVIDER":         func(v string) error { config.Model.Provider = v; return nil },
		"REVIEWRAG_MODEL_ENDPOINT":         func(v string) error { config.Model.Endpoint = v; return nil },
		"REVIEWRAG_MODEL_API_KEY":          func(v string) error { config.Model.APIKey = v; return nil },
		"REVIEWRAG_MODEL_GENERATION_MODEL": func(v string) error { config.Model.GenerationModel = v; return nil },
		"REVIEWRAG_MODEL_EMBEDDING_MODEL":  func(v string) error { config.Model.EmbeddingModel = v; return nil },
		"REVIEWRAG_MODEL_TIMEOUT":          func(v string) error { return parseDuration(v, &config.Model.Timeout) },
		"REVIEWRAG_MODEL_TEMPERATURE":      func(v string) error { return parseFloat(v, &config.Model.Temperature) },

		// Pipeline Config
		"REVIEWRAG_PIPELINE_TOP_K":              func(v string) error { return parseInt(v, &config.Pipeline.TopK) },
		"REVIEWRAG_PIPELINE_MAX_TOKENS":         func(v string) error { return parseInt(v, &config.Pipeline.MaxTokens) },
		"REVIEWRAG_PIPELINE_GENERATION_TIMEOUT": func(v string) error { return parseDuration(v, &config.Pipeline.GenerationTimeout) },
		"REVIEWRAG_PIPELINE_BATCH_SIZE":         func(v string) error { return parseInt(v, &config.Pipeline.BatchSize) },
		"REVIEWRAG_PIPELINE_WORKERS":            func(v string) error { return parseInt(v, &config.Pipeline.Workers) },

		// Server Config
		"REVIEWRAG_SERVER_LISTEN": func(v string) error { config.Server.Listen = v; return nil },

		// Output Config
		"REVIEWRAG_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"REVIEWRAG_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"REVIEWRAG_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeCorpusConfig(&dst.Corpus, &src.Corpus)
	mergeIndexConfig(&dst.Index, &src.Index)
	mergeModelConfig(&dst.Model, &src.Model)
	mergePipelineConfig(&dst.Pipeline, &src.Pipeline)
	mergeServerConfig(&dst.Server, &src.Server)
	mergeOutputConfig(&dst.Output, &src.Output)
}

func mergeCorpusConfig(dst, src *CorpusConfig) {
	if src.Path != "" {
		dst.Path = src.Path
	}
	if src.Column != "" {
		dst.Column = src.Column
	}
}

func mergeIndexConfig(dst, src *IndexConfig) {
	if src.Backend != "" {
		dst.Backend = src.Backend
	}
	if src.Dir != "" {
		dst.Dir = src.Dir
	}
	if src.Collection != "" {
		dst.Collection = src.Collection
	}
	if src.MinScore != 0 {
		dst.MinScore = src.MinScore
	}
	if src.QdrantURL != "" {
		dst.QdrantURL = src.QdrantURL
	}
	if src.QdrantAPIKey != "" {
		dst.QdrantAPIKey = src.QdrantAPIKey
	}
}

func mergeModelConfig(dst, src *ModelConfig) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Endpoint != "" {
		dst.Endpoint = src.Endpoint
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.GenerationModel != "" {
		dst.GenerationModel = src.GenerationModel
	}
	if src.EmbeddingModel != "" {
		dst.EmbeddingModel = src.EmbeddingModel
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.Temperature != 0 {
		dst.Temperature = src.Temperature
	}
}

func mergePipelineConfig(dst, src *PipelineConfig) {
	if src.TopK != 0 {
		dst.TopK = src.TopK
	}
	if src.MaxTokens != 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.GenerationTimeout != 0 {
		dst.GenerationTimeout = src.GenerationTimeout
	}
	if src.BatchSize != 0 {
		dst.BatchSize = src.BatchSize
	}
	if src.Workers != 0 {
		dst.Workers = src.Workers
	}
}

func mergeServerConfig(dst, src *ServerConfig) {
	if src.Listen != "" {
		dst.Listen = src.Listen
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Verbose {
		dst.Verbose = src.Verbose
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
