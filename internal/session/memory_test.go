package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetAndValid(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Stop()
	ctx := context.Background()

	if err := s.Set(ctx, 1, "token-a", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ok, err := s.Valid(ctx, 1, "token-a")
	if err != nil || !ok {
		t.Fatalf("expected token-a to be valid, got %v (err %v)", ok, err)
	}

	ok, _ = s.Valid(ctx, 1, "token-b")
	if ok {
		t.Error("expected unknown token to be rejected")
	}

	ok, _ = s.Valid(ctx, 2, "token-a")
	if ok {
		t.Error("expected token of another user to be rejected")
	}
}

func TestMemoryStoreOverwriteInvalidatesPreviousToken(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Stop()
	ctx := context.Background()

	s.Set(ctx, 7, "first", time.Hour)
	s.Set(ctx, 7, "second", time.Hour)

	if ok, _ := s.Valid(ctx, 7, "first"); ok {
		t.Error("expected first token to be superseded")
	}
	if ok, _ := s.Valid(ctx, 7, "second"); !ok {
		t.Error("expected second token to be valid")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Stop()
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Set(ctx, 3, "tok", time.Hour)

	now = now.Add(59 * time.Minute)
	if ok, _ := s.Valid(ctx, 3, "tok"); !ok {
		t.Error("expected token to be valid before TTL")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := s.Valid(ctx, 3, "tok"); ok {
		t.Error("expected token to be expired after TTL")
	}
	if s.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, %d left", s.Len())
	}
}

func TestMemoryStoreDeleteAndJanitor(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Stop()
	ctx := context.Background()

	s.Set(ctx, 1, "a", time.Hour)
	s.Set(ctx, 2, "b", -time.Second)

	s.deleteExpired()
	if s.Len() != 1 {
		t.Fatalf("expected janitor to drop the expired entry, %d left", s.Len())
	}

	s.Delete(ctx, 1)
	if ok, _ := s.Valid(ctx, 1, "a"); ok {
		t.Error("expected deleted session to be invalid")
	}
}
