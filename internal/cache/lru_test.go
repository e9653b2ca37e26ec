package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("got %q ok=%v", v, ok)
	}

	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite: got %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("size: got %d", c.Size())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now the most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should survive eviction")
	}
	if c.Size() != 2 {
		t.Fatalf("size: got %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRUCache[int](10, -time.Second) // everything born expired
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expired entry should miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry should be dropped on access, size=%d", c.Size())
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("a") // idempotent
	if _, ok := c.Get("a"); ok {
		t.Fatalf("deleted entry should miss")
	}
}
