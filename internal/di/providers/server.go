package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/api"
	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	services := api.Services{
		Auth:   do.MustInvoke[*service.AuthService](i),
		Admin:  do.MustInvoke[*service.AdminService](i),
		Borrow: do.MustInvoke[*service.BorrowService](i),
		Stats:  do.MustInvoke[*service.StatsService](i),
		Search: indexHandle.SearchIndex,
	}

	handler := api.NewServer(services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
