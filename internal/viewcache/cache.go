// Package viewcache caches rendered view payloads in an embedded Badger
// database and tracks which views a write invalidates.
//
// Keys follow the views:* scheme:
//
//	views:books                  admin and public book listings
//	views:book:{id}              a single book's detail view
//	views:users                  the admin user table
//	views:profile:{emailLower}   a user's profile view
//	views:borrow-records         the admin borrow record table
package viewcache

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("viewcache: miss")

// Well-known view keys. Per-entity keys are built with BookKey and ProfileKey.
const (
	KeyBooks         = "views:books"
	KeyUsers         = "views:users"
	KeyBorrowRecords = "views:borrow-records"
)

// BookKey returns the cache key for a single book's detail view.
func BookKey(bookID string) string {
	return "views:book:" + bookID
}

// ProfileKey returns the cache key for a user's profile view.
// The email is expected pre-folded (see domain.User.EmailKey).
func ProfileKey(emailLower string) string {
	return "views:profile:" + emailLower
}

// Cache wraps a Badger database instance used for view payloads.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// DefaultTTL bounds staleness for views whose invalidation is missed.
const DefaultTTL = 15 * time.Minute

// Open creates a new Cache at the given path. A ttl of zero uses DefaultTTL.
func Open(path string, logger *slog.Logger, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if logger != nil {
		logger.Info("view cache opened", "path", path, "ttl", ttl)
	}

	return &Cache{db: db, logger: logger, ttl: ttl}, nil
}

// Close gracefully closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get unmarshals the cached payload for key into dest.
// Returns ErrMiss when the key is absent or expired.
func (c *Cache) Get(key string, dest any) error {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrMiss
	}
	return err
}

// Set stores a payload under key with the cache's TTL.
func (c *Cache) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// Invalidate drops the given keys. Missing keys are not an error.
func (c *Cache) Invalidate(keys ...string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// InvalidatePrefix drops every key starting with prefix.
func (c *Cache) InvalidatePrefix(prefix string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
