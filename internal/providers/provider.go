// Package providers abstracts the LLM backends used for extraction. All
// clients implement the single LLMClient interface; credentials are injected
// through configuration, never read from ambient process state.
package providers

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LLMClient is the interface every chat backend implements.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g. "openrouter").
	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ResponseFormat requests structured output from the backend.
type ResponseFormat struct {
	Type string `json:"type"` // "json_object"
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Timeout     time.Duration

	// Structured output
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID     string        `json:"request_id"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// ProviderError is a transport or backend failure. It is distinct from parse
// and validation errors: callers must not burn a correction attempt on it.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Config selects and parameterizes a backend client.
type Config struct {
	Name       string
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	RPM        int
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient builds the LLMClient named by cfg. The API key must be present
// for real backends; there is no fallback to process environment.
func NewClient(cfg Config) (LLMClient, error) {
	switch strings.ToLower(cfg.Name) {
	case OpenRouterName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider %s: api key is required", cfg.Name)
		}
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
			RPM:          cfg.RPM,
			MaxRetries:   cfg.MaxRetries,
			RetryDelay:   cfg.RetryDelay,
		}), nil
	case OpenAIName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider %s: api key is required", cfg.Name)
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
			RPM:          cfg.RPM,
			MaxRetries:   cfg.MaxRetries,
		}), nil
	case MockClientName:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}
