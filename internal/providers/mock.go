package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing. Responses are scripted and consumed
// in order; every request is recorded for later inspection.
type MockClient struct {
	// Configurable behavior
	Latency   time.Duration
	Responses []string // Consumed in order; the last one repeats.
	Err       error    // Returned instead of a response when set.
	ErrAt     int      // 1-based request number Err fires on; 0 means every request.

	mu    sync.Mutex
	calls []ChatRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:   time.Millisecond,
		Responses: []string{"{}"},
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat records the request and returns the next scripted response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	c.mu.Lock()
	c.calls = append(c.calls, *req)
	n := len(c.calls)
	c.mu.Unlock()

	if c.Err != nil && (c.ErrAt == 0 || n == c.ErrAt) {
		return nil, c.Err
	}

	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var content string
	switch {
	case len(c.Responses) == 0:
		content = "{}"
	case n-1 < len(c.Responses):
		content = c.Responses[n-1]
	default:
		content = c.Responses[len(c.Responses)-1]
	}

	promptTokens := 0
	for _, m := range req.Messages {
		promptTokens += len(m.Content) / 4
	}
	completionTokens := len(content) / 4

	return &ChatResult{
		Content:          content,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Provider:         MockClientName,
		ModelUsed:        req.Model,
		RequestID:        fmt.Sprintf("mock-%d", n),
	}, nil
}

// Calls returns a copy of every recorded request, in arrival order.
func (c *MockClient) Calls() []ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatRequest, len(c.calls))
	copy(out, c.calls)
	return out
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// Reset clears recorded requests.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
