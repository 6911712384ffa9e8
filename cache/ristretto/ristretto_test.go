package ristretto

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cache, err := New[string]()
	if err != nil {
		t.Fatalf("New returned an unexpected error: %v", err)
	}
	if cache == nil {
		t.Fatal("New returned a nil cache, but no error")
	}
}

func TestCache_SetAndGet(t *testing.T) {
	t.Parallel()
	cache, err := New[string]()
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	key, value := "linkage:sub-1", "account-1"
	cache.Set(key, value, 1)
	// Ristretto processes writes asynchronously, so a small delay is needed for the value to become available.
	time.Sleep(10 * time.Millisecond)

	retrieved, found := cache.Get(key)
	if !found {
		t.Errorf("expected to find key %q, but it was not found", key)
	}
	if retrieved != value {
		t.Errorf("expected value %q, but got %q", value, retrieved)
	}

	if _, found := cache.Get("non-existent-key"); found {
		t.Error("expected not to find a never-set key")
	}
}

func TestCache_Del(t *testing.T) {
	t.Parallel()
	cache, err := New[string]()
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	key := "linkage:sub-2"
	cache.Set(key, "account-2", 1)
	time.Sleep(10 * time.Millisecond)

	cache.Del(key)
	time.Sleep(10 * time.Millisecond)

	if _, found := cache.Get(key); found {
		t.Errorf("expected key %q to be gone after Del", key)
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	t.Parallel()
	cache, err := New[string]()
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	key := "linkage:sub-3"
	cache.SetWithTTL(key, "account-3", 1, 50*time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	if _, found := cache.Get(key); !found {
		t.Fatalf("expected key %q to be present before expiry", key)
	}

	time.Sleep(100 * time.Millisecond)
	if _, found := cache.Get(key); found {
		t.Errorf("expected key %q to have expired", key)
	}
}
