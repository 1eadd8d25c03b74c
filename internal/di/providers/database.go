package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
	"github.com/shelfmark/shelfmark-server/internal/viewcache"
)

// StoreHandle wraps the record store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the sqlite record store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ViewCacheHandle wraps the view cache with shutdown capability.
type ViewCacheHandle struct {
	*viewcache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *ViewCacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideViewCache provides the badger-backed view cache.
func ProvideViewCache(i do.Injector) (*ViewCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cache, err := viewcache.Open(cfg.ViewCachePath(), log.Logger, viewcache.DefaultTTL)
	if err != nil {
		return nil, err
	}

	log.Info("View cache initialized", "path", cfg.ViewCachePath())

	return &ViewCacheHandle{Cache: cache}, nil
}
