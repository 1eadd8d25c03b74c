// Package api provides the HTTP API server and handlers for the Shelfmark
// server.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfmark/shelfmark-server/internal/ratelimit"
	"github.com/shelfmark/shelfmark-server/internal/search"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth   *service.AuthService
	Admin  *service.AdminService
	Borrow *service.BorrowService
	Stats  *service.StatsService
	Search *search.SearchIndex
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Shelfmark API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s := &Server{
		services: services,
		router:   router,
		logger:   logger,
		// Login attempts: 10 per minute per IP with a small burst.
		authRateLimiter: ratelimit.New(10.0/60.0, 5),
	}

	// Middleware must be installed before the huma adapter mounts the
	// OpenAPI routes on the mux.
	s.setupMiddleware()
	s.api = humachi.New(router, humaConfig)

	RegisterErrorHandler()
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCatalogRoutes()
	s.registerBookRoutes()
	s.registerUserRoutes()
	s.registerBorrowRoutes()
	s.registerStatsRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(s.loginRateLimit)
}
