package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.SearchIndexPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// TriggerSearchReindexIfNeeded reindexes the catalog when the index is empty
// but the store has books. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	books, err := storeHandle.ListBooks(ctx)
	if err != nil || len(books) == 0 {
		return
	}

	log.Info("Search index is empty but books exist, triggering initial reindex",
		"book_count", len(books),
	)

	go func() {
		if err := indexHandle.IndexBooks(context.Background(), books); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			count, _ := indexHandle.DocumentCount()
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}
