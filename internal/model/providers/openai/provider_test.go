package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yildizm/ReviewRAG/internal/model"
)

func testConfig(baseURL string) *Config {
	config := DefaultConfig()
	config.APIKey = "test-key"
	config.BaseURL = baseURL
	return config
}

func TestProvider_New_RequiresAPIKey(t *testing.T) {
	config := DefaultConfig()
	if _, err := New(config); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected path '/v1/chat/completions', got '%s'", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected authorization header: %q", auth)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.MaxTokens != 128 {
			t.Errorf("Expected max_tokens 128, got %d", req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Error("Expected system message followed by user message")
		}

		var resp ChatResponse
		resp.Model = req.Model
		resp.Choices = append(resp.Choices, struct {
			Index        int         `json:"index"`
			Message      ChatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		}{Message: ChatMessage{Role: "assistant", Content: "generated text"}, FinishReason: "stop"})
		resp.Usage.PromptTokens = 15
		resp.Usage.CompletionTokens = 7
		resp.Usage.TotalTokens = 22
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), &model.GenerateRequest{
		Prompt:       "user prompt",
		SystemPrompt: "system prompt",
		MaxTokens:    128,
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if resp.Text != "generated text" {
		t.Errorf("Unexpected response text: %q", resp.Text)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("Unexpected finish reason: %q", resp.FinishReason)
	}
}

func TestProvider_Generate_AuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		var resp ErrorResponse
		resp.Error.Message = "invalid api key"
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), &model.GenerateRequest{Prompt: "test"})
	var pe *model.ProviderError
	if !errors.As(err, &pe) || pe.Type != model.ErrTypeAuthentication {
		t.Errorf("Expected authentication error, got %v", err)
	}
}

func TestProvider_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("Expected path '/v1/embeddings', got '%s'", r.URL.Path)
		}

		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		// Return data in reverse order; the client must restore it
		var resp EmbeddingsResponse
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float64 `json:"embedding"`
			}{Index: i, Embedding: []float64{float64(i), 1}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	vectors, err := provider.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch() error: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("EmbedBatch() returned %d vectors, want 3", len(vectors))
	}
	for i, vector := range vectors {
		if vector[0] != float32(i) {
			t.Errorf("vector %d out of order: %v", i, vector)
		}
	}
}

func TestProvider_EmbedMatchesBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmbeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		var resp EmbeddingsResponse
		for i := range req.Input {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float64 `json:"embedding"`
			}{Index: i, Embedding: []float64{0.5, 0.25}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	single, err := provider.Embed(context.Background(), "latte")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	batch, err := provider.EmbedBatch(context.Background(), []string{"latte"})
	if err != nil {
		t.Fatalf("EmbedBatch() error: %v", err)
	}

	if len(single) != len(batch[0]) {
		t.Fatalf("Embed and EmbedBatch dimensions differ: %d vs %d", len(single), len(batch[0]))
	}
	for i := range single {
		if single[i] != batch[0][i] {
			t.Errorf("Embed and EmbedBatch differ at %d: %v vs %v", i, single[i], batch[0][i])
		}
	}
}
