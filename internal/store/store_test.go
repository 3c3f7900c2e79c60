package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("Get = %q ok=%v err=%v, want v1", got, ok, err)
	}

	// Put replaces existing value.
	if err := s.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, _, _ = s.Get(ctx, "k")
	if string(got) != "v2" {
		t.Errorf("after replace got %q, want v2", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("key still present after Delete")
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestEventRepoAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	for i, purpose := range []string{"quiz_generation", "quiz_review", "quiz_generation"} {
		data := LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      purpose,
			InputTokens:  10 + i,
			OutputTokens: 20 + i,
			LatencyMs:    int64(100 * (i + 1)),
			Success:      i != 1,
		}
		if i == 1 {
			data.ErrorMessage = "rate limited"
		}
		if err := repo.AppendLLMRequest(ctx, data); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, 0)
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Newest first.
	if events[0].Purpose != "quiz_generation" || events[0].InputTokens != 12 {
		t.Errorf("unexpected newest event: %+v", events[0])
	}
	if events[1].Success || events[1].ErrorMessage != "rate limited" {
		t.Errorf("failed event not recorded: %+v", events[1])
	}

	limited, err := repo.QueryLLMEvents(ctx, 2)
	if err != nil {
		t.Fatalf("QueryLLMEvents limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d events with limit 2", len(limited))
	}
}
