// Package service orchestrates domain operations over the store, the view
// cache, and the search index.
package service

import (
	"context"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/viewcache"
)

// ViewInvalidator drops cached views after a write.
// Services depend on this interface rather than the badger cache directly.
type ViewInvalidator interface {
	Invalidate(keys ...string) error
}

// ViewCache adds read-through access to rendered listing payloads.
// Get must return viewcache.ErrMiss for absent keys; a miss is never an error
// to callers, just a signal to fall back to the store.
type ViewCache interface {
	ViewInvalidator
	Get(key string, dest any) error
	Set(key string, value any) error
}

// NoopInvalidator is a pass-through implementation for testing: every read
// misses and writes go nowhere.
type NoopInvalidator struct{}

// Invalidate implements ViewInvalidator as a no-op.
func (NoopInvalidator) Invalidate(...string) error { return nil }

// Get always misses.
func (NoopInvalidator) Get(string, any) error { return viewcache.ErrMiss }

// Set is a no-op.
func (NoopInvalidator) Set(string, any) error { return nil }

// BookIndexer keeps the catalog search index in sync with book writes.
type BookIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
}

// NoopIndexer is a no-op implementation for testing.
type NoopIndexer struct{}

// IndexBook is a no-op.
func (NoopIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopIndexer) DeleteBook(context.Context, string) error { return nil }
