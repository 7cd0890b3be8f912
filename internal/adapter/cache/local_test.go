package cache

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/ports"
)

func TestLocalStore_SetGetDelete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := NewLocalStore(0, zap.NewNop())
	defer store.Close()

	// Act
	if err := store.SetEX(ctx, "pending:alice", "value", time.Minute); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err := store.Get(ctx, "pending:alice")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "value" {
		t.Errorf("expected 'value', got '%s'", got)
	}

	if err := store.Delete(ctx, "pending:alice"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Get(ctx, "pending:alice"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestLocalStore_ExpiredEntryIsMissing(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(0, zap.NewNop())
	defer store.Close()

	_ = store.SetEX(ctx, "pending:bob", "value", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, err := store.Get(ctx, "pending:bob"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound for expired key, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, %d entries left", store.Len())
	}
}

func TestLocalStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(0, zap.NewNop())
	defer store.Close()

	_ = store.SetEX(ctx, "pending:a", "1", time.Minute)
	_ = store.SetEX(ctx, "pending:b", "2", time.Minute)
	_ = store.SetEX(ctx, "other:c", "3", time.Minute)

	keys, err := store.Keys(ctx, "pending:")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	sort.Strings(keys)

	if len(keys) != 2 || keys[0] != "pending:a" || keys[1] != "pending:b" {
		t.Errorf("expected [pending:a pending:b], got %v", keys)
	}
}

func TestLocalStore_CleanupLoop(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(5*time.Millisecond, zap.NewNop())
	defer store.Close()

	_ = store.SetEX(ctx, "pending:x", "1", time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for store.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if store.Len() != 0 {
		t.Errorf("expected cleanup loop to drop the expired entry")
	}
}

func TestLocalStore_CloseTwice(t *testing.T) {
	store := NewLocalStore(time.Minute, zap.NewNop())
	if err := store.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected second close to be a no-op, got %v", err)
	}
}
