package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func completionBody(content string) string {
	resp := map[string]any{
		"id":    "gen-1",
		"model": "test/model-1",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": 7,
			"total_tokens":      19,
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestOpenRouterChat(t *testing.T) {
	var gotAuth string
	var gotBody openRouterRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"edad": 32}`)))
	}))
	defer server.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "instrucciones"},
			{Role: "user", Content: "texto"},
		},
		Model:       "test/model-1",
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotBody.Model != "test/model-1" {
		t.Errorf("unexpected model in request: %s", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("messages not forwarded: %+v", gotBody.Messages)
	}
	if result.Content != `{"edad": 32}` {
		t.Errorf("unexpected content: %s", result.Content)
	}
	if result.TotalTokens != 19 {
		t.Errorf("unexpected total tokens: %d", result.TotalTokens)
	}
	if result.Provider != OpenRouterName {
		t.Errorf("unexpected provider: %s", result.Provider)
	}
}

func TestOpenRouterChat_RetriesTransientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:     "k",
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hola"}},
	})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
	if result.Content != "ok" {
		t.Errorf("unexpected content: %s", result.Content)
	}
}

func TestOpenRouterChat_NonRetryableError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key"}}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:     "wrong",
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hola"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if pe.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", pe.StatusCode)
	}
	if attempts.Load() != 1 {
		t.Errorf("auth errors must not be retried, got %d attempts", attempts.Load())
	}
}

func TestOpenRouterChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "gen-1", "model": "m", "choices": []}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:     "k",
		BaseURL:    server.URL,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hola"}},
	})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
}

func TestNewClient(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewClient(Config{Name: "openrouter"})
		if err == nil {
			t.Error("expected error for missing api key")
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewClient(Config{Name: "oracle"})
		if err == nil {
			t.Error("expected error for unknown provider")
		}
	})

	t.Run("openrouter", func(t *testing.T) {
		c, err := NewClient(Config{Name: "openrouter", APIKey: "k"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Name() != OpenRouterName {
			t.Errorf("unexpected client: %s", c.Name())
		}
	})

	t.Run("openai", func(t *testing.T) {
		c, err := NewClient(Config{Name: "openai", APIKey: "k"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Name() != OpenAIName {
			t.Errorf("unexpected client: %s", c.Name())
		}
	})

	t.Run("mock", func(t *testing.T) {
		c, err := NewClient(Config{Name: "mock"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Name() != MockClientName {
			t.Errorf("unexpected client: %s", c.Name())
		}
	})
}
