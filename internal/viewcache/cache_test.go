package viewcache

import (
	"errors"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(t.TempDir(), nil, ttl)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

type payload struct {
	IDs []string `json:"ids"`
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t, 0)

	in := payload{IDs: []string{"book-1", "book-2"}}
	if err := c.Set(KeyBooks, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	if err := c.Get(KeyBooks, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out.IDs) != 2 || out.IDs[0] != "book-1" || out.IDs[1] != "book-2" {
		t.Errorf("got %v, want %v", out.IDs, in.IDs)
	}
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t, 0)

	var out payload
	err := c.Get(KeyUsers, &out)
	if !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t, 0)

	if err := c.Set(KeyBooks, payload{IDs: []string{"a"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(KeyBorrowRecords, payload{IDs: []string{"b"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Invalidating both cached and uncached keys succeeds.
	if err := c.Invalidate(KeyBooks, KeyUsers); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	var out payload
	if err := c.Get(KeyBooks, &out); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after invalidation, got %v", err)
	}
	if err := c.Get(KeyBorrowRecords, &out); err != nil {
		t.Errorf("untouched key should survive, got %v", err)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := newTestCache(t, 0)

	for _, id := range []string{"book-1", "book-2"} {
		if err := c.Set(BookKey(id), payload{IDs: []string{id}}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := c.Set(KeyUsers, payload{IDs: []string{"u"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := c.InvalidatePrefix("views:book:"); err != nil {
		t.Fatalf("InvalidatePrefix: %v", err)
	}

	var out payload
	for _, id := range []string{"book-1", "book-2"} {
		if err := c.Get(BookKey(id), &out); !errors.Is(err, ErrMiss) {
			t.Errorf("%s: expected ErrMiss, got %v", BookKey(id), err)
		}
	}
	if err := c.Get(KeyUsers, &out); err != nil {
		t.Errorf("users key should survive, got %v", err)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)

	if err := c.Set(KeyBooks, payload{IDs: []string{"a"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	var out payload
	if err := c.Get(KeyBooks, &out); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after TTL, got %v", err)
	}
}
