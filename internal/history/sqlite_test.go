package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "summaries.db")
	store, err := NewSQLiteStore(dbPath, "", 0)
	if err != nil {
		t.Fatalf("failed to init sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	_, ok, err := store.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatalf("expected miss for unknown id")
	}

	if err := store.Put(context.Background(), "abc123", "A short summary."); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	summary, ok, err := store.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || summary != "A short summary." {
		t.Fatalf("expected stored summary, got %q (hit=%v)", summary, ok)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "summaries.db")
	store, err := NewSQLiteStore(dbPath, "", 0)
	if err != nil {
		t.Fatalf("failed to init sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Put(context.Background(), "abc123", "first"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Put(context.Background(), "abc123", "second"); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	summary, ok, err := store.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || summary != "second" {
		t.Fatalf("expected overwritten summary, got %q", summary)
	}
}

func TestSQLiteStoreIgnoresEmptyWrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "summaries.db")
	store, err := NewSQLiteStore(dbPath, "", 0)
	if err != nil {
		t.Fatalf("failed to init sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Put(context.Background(), "", "orphan"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Put(context.Background(), "abc123", ""); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	_, ok, err := store.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatalf("empty summaries must not be stored")
	}
}

func TestSQLiteStoreHonorsTTL(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "summaries.db")
	store, err := NewSQLiteStore(dbPath, "", 5*time.Millisecond)
	if err != nil {
		t.Fatalf("failed to init sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Put(context.Background(), "ttl-id", "soon stale"); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, ok, err := store.Get(context.Background(), "ttl-id")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestSQLiteStoreRejectsBadTableName(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "summaries.db")
	if _, err := NewSQLiteStore(dbPath, "bad table;", 0); err == nil {
		t.Fatalf("expected error for invalid table name")
	}
}
