// Package search provides full-text catalog search over books using Bleve.
// The admin tables do their own substring filtering; this index serves the
// public catalog's relevance-ranked search.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// mappingVersion is incremented whenever the index mapping changes.
// A mismatch on startup triggers an automatic rebuild.
const mappingVersion = "1"

// SearchIndex wraps a Bleve index with book-specific operations.
//
// All public methods are safe for concurrent use. The mutex protects against
// index corruption during rebuild operations.
type SearchIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (stderr if nil)
}

// NewSearchIndex creates or opens a search index.
// An existing index with a stale or missing mapping version is removed and
// recreated; callers should reindex the catalog after that.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "books.bleve")
	versionPath := filepath.Join(opts.DataPath, "books.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild with current mapping",
				"new_version", mappingVersion)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath, "error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &SearchIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexBook adds or updates one book in the index.
func (s *SearchIndex) IndexBook(_ context.Context, book *domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(book.ID, bookToDocument(book))
}

// IndexBooks indexes many books in one batch, for startup reindexing.
func (s *SearchIndex) IndexBooks(_ context.Context, books []*domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, book := range books {
		if err := batch.Index(book.ID, bookToDocument(book)); err != nil {
			return fmt.Errorf("batch index book %s: %w", book.ID, err)
		}
	}
	return s.index.Batch(batch)
}

// DeleteBook removes one book from the index.
func (s *SearchIndex) DeleteBook(_ context.Context, bookID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(bookID)
}

// DocumentCount returns the number of indexed books.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
