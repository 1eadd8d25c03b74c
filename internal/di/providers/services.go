package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvideAdminService provides the admin catalog service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*ViewCacheHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, cacheHandle.Cache, indexHandle.SearchIndex, nil, log.Logger), nil
}

// ProvideBorrowService provides the borrow workflow service.
func ProvideBorrowService(i do.Injector) (*service.BorrowService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*ViewCacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBorrowService(storeHandle.Store, cacheHandle.Cache, log.Logger), nil
}

// ProvideStatsService provides the dashboard stats service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}
