package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yildizm/ReviewRAG/internal/model"
)

// Provider implements the model provider interface for Ollama
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL

	dimMu     sync.RWMutex
	dimension int
}

// New creates a new Ollama provider instance
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, model.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "ollama"
}

// Generate performs text generation. The request's MaxTokens maps to
// num_predict so the server never produces more than the caller's cap.
func (p *Provider) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	if req == nil {
		return nil, model.NewValidationError("request", "nil", "generate request is required")
	}

	startTime := time.Now()

	genModel := req.Model
	if genModel == "" {
		genModel = p.config.GenerationModel
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.Temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.config.MaxTokens
	}

	ollamaReq := &GenerateRequest{
		Model:     genModel,
		Prompt:    req.Prompt,
		System:    req.SystemPrompt,
		Stream:    false,
		KeepAlive: p.config.KeepAlive,
		Options: &Options{
			Temperature: temperature,
			NumPredict:  maxTokens,
		},
	}

	resp, err := p.generate(ctx, ollamaReq)
	if err != nil {
		return nil, err
	}

	finishReason := "stop"
	if resp.EvalCount >= maxTokens {
		finishReason = "length"
	}

	return &model.GenerateResponse{
		Text:         resp.Response,
		FinishReason: finishReason,
		Model:        resp.Model,
		CreatedAt:    startTime,
		Usage: &model.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}

// Embed returns the embedding for a single text
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	endpoint := p.baseURL.JoinPath("/api/embeddings")

	ollamaReq := &EmbeddingsRequest{
		Model:     p.config.EmbeddingModel,
		Prompt:    text,
		KeepAlive: p.config.KeepAlive,
	}

	jsonData, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to marshal request", "ollama", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to create request", "ollama", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.classifyTransportError("embeddings request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.classifyStatusError(resp)
	}

	var result EmbeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to decode response", "ollama", err)
	}
	if len(result.Embedding) == 0 {
		return nil, model.NewProviderError(model.ErrTypeProvider, "no embedding returned", "ollama")
	}

	vector := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		vector[i] = float32(v)
	}

	p.dimMu.Lock()
	p.dimension = len(vector)
	p.dimMu.Unlock()

	return vector, nil
}

// EmbedBatch embeds all texts over one client connection. keep_alive
// holds the model loaded server-side for the whole batch instead of
// reloading it per item.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := p.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding item %d: %w", i, err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimension returns the embedding dimensionality, 0 before the first embed
func (p *Provider) Dimension() int {
	p.dimMu.RLock()
	defer p.dimMu.RUnlock()
	return p.dimension
}

// HealthCheck verifies provider connectivity and status
func (p *Provider) HealthCheck(ctx context.Context) error {
	endpoint := p.baseURL.JoinPath("/api/tags")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return model.NewProviderErrorWithCause(model.ErrTypeNetwork, "failed to create health check request", "ollama", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return model.NewProviderErrorWithCause(model.ErrTypeNetwork, "health check failed", "ollama", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.NewProviderError(model.ErrTypeProvider, fmt.Sprintf("health check failed with status %d", resp.StatusCode), "ollama")
	}

	return nil
}

// Close cleans up provider resources
func (p *Provider) Close() error {
	// No persistent connections to close for HTTP client
	return nil
}

// generate performs a single generation request
func (p *Provider) generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	endpoint := p.baseURL.JoinPath("/api/generate")

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to marshal request", "ollama", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to create request", "ollama", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.classifyTransportError("generation request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.classifyStatusError(resp)
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to decode response", "ollama", err)
	}

	return &result, nil
}

// classifyTransportError maps transport failures onto the error
// taxonomy; an expired deadline becomes a timeout error.
func (p *Provider) classifyTransportError(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.NewProviderErrorWithCause(model.ErrTypeTimeout, message+": deadline exceeded", "ollama", err)
	}
	return model.NewProviderErrorWithCause(model.ErrTypeNetwork, message, "ollama", err)
}

// classifyStatusError maps non-200 responses; a missing model surfaces
// as model_unavailable.
func (p *Provider) classifyStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	message := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	var errorResp ErrorResponse
	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error != "" {
		message = errorResp.Error
	}

	errType := model.ErrTypeProvider
	if resp.StatusCode == http.StatusNotFound || strings.Contains(message, "not found") {
		errType = model.ErrTypeModelUnavailable
	}

	pe := model.NewProviderError(errType, message, "ollama")
	pe.StatusCode = resp.StatusCode
	return pe
}

// Register registers the Ollama provider with the global registry
func Register() error {
	return model.RegisterProvider("ollama", func(config *model.ProviderConfig) (model.Provider, error) {
		return New(FromProviderConfig(config))
	})
}
