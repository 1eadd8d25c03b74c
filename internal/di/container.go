// Package di provides dependency injection configuration for the Shelfmark server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/di/providers"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideViewCache)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideBorrowService)
	do.Provide(injector, providers.ProvideStatsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ViewCacheHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.BorrowService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the catalog index if it is empty but books exist.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
