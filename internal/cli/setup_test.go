package cli

import (
	"testing"

	"github.com/yildizm/ReviewRAG/internal/config"
)

func TestCreateProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ModelConfig
		wantErr bool
	}{
		{
			name: "ollama",
			cfg:  config.ModelConfig{Provider: "ollama", Endpoint: "http://localhost:11434"},
		},
		{
			name: "default provider",
			cfg:  config.ModelConfig{},
		},
		{
			name:    "openai without api key",
			cfg:     config.ModelConfig{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     config.ModelConfig{Provider: "anthropic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "")
			provider, err := createProvider(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				_ = provider.Close()
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	t.Run("disk", func(t *testing.T) {
		store, err := openStore(&config.IndexConfig{
			Backend:    "disk",
			Dir:        t.TempDir(),
			Collection: "catalog",
		})
		if err != nil {
			t.Fatalf("openStore() error: %v", err)
		}
		_ = store.Close()
	})

	t.Run("qdrant", func(t *testing.T) {
		store, err := openStore(&config.IndexConfig{
			Backend:    "qdrant",
			QdrantURL:  "http://localhost:6333",
			Collection: "catalog",
		})
		if err != nil {
			t.Fatalf("openStore() error: %v", err)
		}
		_ = store.Close()
	})

	t.Run("unknown backend", func(t *testing.T) {
		if _, err := openStore(&config.IndexConfig{Backend: "redis"}); err == nil {
			t.Error("expected an error for unknown backend")
		}
	})
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand("1.0.0", "abc123", "2026-01-01")

	want := map[string]bool{
		"index":   false,
		"ask":     false,
		"chat":    false,
		"serve":   false,
		"watch":   false,
		"config":  false,
		"version": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
