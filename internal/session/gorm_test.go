package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/session"
)

func TestDBStoreSingleActiveSession(t *testing.T) {
	store := session.NewDBStore(dbtest.Open(t))
	ctx := context.Background()

	if err := store.Set(ctx, 11, "t1", time.Hour); err != nil {
		t.Fatalf("Set t1: %v", err)
	}
	if ok, err := store.Valid(ctx, 11, "t1"); err != nil || !ok {
		t.Fatalf("expected t1 valid, got %v (err %v)", ok, err)
	}

	if err := store.Set(ctx, 11, "t2", time.Hour); err != nil {
		t.Fatalf("Set t2: %v", err)
	}
	if ok, _ := store.Valid(ctx, 11, "t1"); ok {
		t.Error("expected t1 to be invalidated by the second login")
	}
	if ok, _ := store.Valid(ctx, 11, "t2"); !ok {
		t.Error("expected t2 to be valid")
	}

	if err := store.Delete(ctx, 11); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := store.Valid(ctx, 11, "t2"); ok {
		t.Error("expected session to be gone after Delete")
	}
}

func TestDBStoreExpiredSession(t *testing.T) {
	store := session.NewDBStore(dbtest.Open(t))
	ctx := context.Background()

	store.Set(ctx, 5, "old", -time.Minute)
	if ok, _ := store.Valid(ctx, 5, "old"); ok {
		t.Error("expected expired session to be rejected")
	}
}
