package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/yildizm/ReviewRAG/internal/model"
)

// Provider implements the model provider interface for OpenAI-compatible APIs
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL

	dimMu     sync.RWMutex
	dimension int
}

// New creates a new OpenAI provider instance
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, model.NewConfigurationError("openai", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "openai"
}

// Generate performs text generation via chat completions
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

	var messages []ChatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: req.Prompt})

	chatReq := &ChatRequest{
		Model:       genModel,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var chatResp ChatResponse
	if err := p.postJSON(ctx, "/v1/chat/completions", chatReq, &chatResp); err != nil {
		return nil, err
	}
	if len(chatResp.Choices) == 0 {
		return nil, model.NewProviderError(model.ErrTypeProvider, "no choices returned", "openai")
	}

	choice := chatResp.Choices[0]
	return &model.GenerateResponse{
		Text:         choice.Message.Content,
		FinishReason: choice.FinishReason,
		Model:        chatResp.Model,
		CreatedAt:    startTime,
		Usage: &model.TokenUsage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
	}, nil
}

// Embed returns the embedding for a single text
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in a single embeddings request.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	embReq := &EmbeddingsRequest{
		Model: p.config.EmbeddingModel,
		Input: texts,
	}

	var embResp EmbeddingsResponse
	if err := p.postJSON(ctx, "/v1/embeddings", embReq, &embResp); err != nil {
		return nil, err
	}
	if len(embResp.Data) != len(texts) {
		return nil, model.NewProviderError(model.ErrTypeProvider,
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(embResp.Data)), "openai")
	}

	// The API may return data out of order; Index restores input order
	sort.Slice(embResp.Data, func(i, j int) bool {
		return embResp.Data[i].Index < embResp.Data[j].Index
	})

	vectors := make([][]float32, len(texts))
	for i, item := range embResp.Data {
		vector := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vector[j] = float32(v)
		}
		vectors[i] = vector
	}

	p.dimMu.Lock()
	if len(vectors) > 0 {
		p.dimension = len(vectors[0])
	}
	p.dimMu.Unlock()

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
	endpoint := p.baseURL.JoinPath("/v1/models")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return model.NewProviderErrorWithCause(model.ErrTypeNetwork, "failed to create health check request", "openai", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return model.NewProviderErrorWithCause(model.ErrTypeNetwork, "health check failed", "openai", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.NewProviderError(model.ErrTypeProvider, fmt.Sprintf("health check failed with status %d", resp.StatusCode), "openai")
	}

	return nil
}

// Close cleans up provider resources
func (p *Provider) Close() error {
	return nil
}

func (p *Provider) postJSON(ctx context.Context, path string, body, out any) error {
	endpoint := p.baseURL.JoinPath(path)

	jsonData, err := json.Marshal(body)
	if err != nil {
		return model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to marshal request", "openai", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to create request", "openai", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.NewProviderErrorWithCause(model.ErrTypeTimeout, "request deadline exceeded", "openai", err)
		}
		return model.NewProviderErrorWithCause(model.ErrTypeNetwork, "request failed", "openai", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return p.classifyStatusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.NewProviderErrorWithCause(model.ErrTypeInternal, "failed to decode response", "openai", err)
	}
	return nil
}

func (p *Provider) classifyStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	message := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	var errorResp ErrorResponse
	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error.Message != "" {
		message = errorResp.Error.Message
	}

	errType := model.ErrTypeProvider
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		errType = model.ErrTypeAuthentication
	case resp.StatusCode == http.StatusNotFound || errorResp.Error.Code == "model_not_found":
		errType = model.ErrTypeModelUnavailable
	case resp.StatusCode >= 500:
		errType = model.ErrTypeNetwork
	}

	pe := model.NewProviderError(errType, message, "openai")
	pe.StatusCode = resp.StatusCode
	return pe
}

// Register registers the OpenAI provider with the global registry
func Register() error {
	return model.RegisterProvider("openai", func(config *model.ProviderConfig) (model.Provider, error) {
		return New(FromProviderConfig(config))
	})
}
