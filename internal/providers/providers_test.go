package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockClient_ScriptedResponses(t *testing.T) {
	mock := NewMockClient()
	mock.Responses = []string{"first", "second"}

	ctx := context.Background()
	req := &ChatRequest{Messages: []Message{{Role: "user", Content: "hola"}}}

	r1, err := mock.Chat(ctx, req)
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	r2, _ := mock.Chat(ctx, req)
	r3, _ := mock.Chat(ctx, req)

	if r1.Content != "first" || r2.Content != "second" {
		t.Errorf("responses out of order: %q, %q", r1.Content, r2.Content)
	}
	if r3.Content != "second" {
		t.Errorf("last response must repeat, got %q", r3.Content)
	}
	if mock.RequestCount() != 3 {
		t.Errorf("expected 3 recorded requests, got %d", mock.RequestCount())
	}
}

func TestMockClient_RecordsRequests(t *testing.T) {
	mock := NewMockClient()

	_, err := mock.Chat(context.Background(), &ChatRequest{
		Messages:    []Message{{Role: "user", Content: "uno"}},
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Temperature != 0.7 {
		t.Errorf("temperature not recorded: %v", calls[0].Temperature)
	}
}

func TestMockClient_ErrAt(t *testing.T) {
	mock := NewMockClient()
	mock.Err = errors.New("boom")
	mock.ErrAt = 2

	ctx := context.Background()
	req := &ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}}

	if _, err := mock.Chat(ctx, req); err != nil {
		t.Fatalf("first call must succeed: %v", err)
	}
	if _, err := mock.Chat(ctx, req); err == nil {
		t.Fatal("second call must fail")
	}
	if _, err := mock.Chat(ctx, req); err != nil {
		t.Fatalf("third call must succeed: %v", err)
	}
}

func TestRateLimiter_TryConsume(t *testing.T) {
	limiter := NewRateLimiter(60)

	consumed := 0
	for i := 0; i < 120; i++ {
		if limiter.TryConsume() {
			consumed++
		}
	}
	// The bucket starts full at the per-minute capacity.
	if consumed < 60 || consumed > 61 {
		t.Errorf("expected ~60 tokens, consumed %d", consumed)
	}
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewRateLimiter(60)
	limiter.Record429() // drain

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected context deadline error on drained bucket")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	limiter := NewRateLimiter(6000) // 100 tokens/sec
	limiter.Record429()

	if limiter.TryConsume() {
		t.Fatal("bucket should be drained")
	}
	time.Sleep(50 * time.Millisecond)
	if !limiter.TryConsume() {
		t.Error("bucket should have refilled at least one token")
	}
}
