package model

import "time"

// GenerateRequest represents a request for text generation.
type GenerateRequest struct {
	// Prompt is the composed input text
	Prompt string `json:"prompt"`

	// SystemPrompt provides system-level instructions
	SystemPrompt string `json:"system_prompt,omitempty"`

	// MaxTokens caps the response length; the provider must not exceed it
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 1.0)
	Temperature float64 `json:"temperature,omitempty"`

	// Model overrides the provider's configured generation model
	Model string `json:"model,omitempty"`
}

// GenerateResponse represents the response from a generation request.
type GenerateResponse struct {
	// Text is the generated output
	Text string `json:"text"`

	// FinishReason indicates why the generation finished
	FinishReason string `json:"finish_reason"`

	// Usage contains token usage information
	Usage *TokenUsage `json:"usage,omitempty"`

	// Model indicates which model was used
	Model string `json:"model"`

	// CreatedAt timestamp
	CreatedAt time.Time `json:"created_at"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig contains configuration for a provider.
type ProviderConfig struct {
	// Name is the provider identifier
	Name string `json:"name"`

	// APIKey for authentication
	APIKey string `json:"api_key,omitempty"`

	// BaseURL for the API endpoint
	BaseURL string `json:"base_url,omitempty"`

	// GenerationModel is the model used for Generate
	GenerationModel string `json:"generation_model,omitempty"`

	// EmbeddingModel is the model used for Embed/EmbedBatch
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// MaxTokens is the default generation cap
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature is the default sampling temperature
	Temperature float64 `json:"temperature,omitempty"`

	// Timeout for requests
	Timeout time.Duration `json:"timeout,omitempty"`
}
