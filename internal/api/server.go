// Package api exposes the termalign services over HTTP using huma on chi.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/termalign/termalign-server/internal/ratelimit"
	"github.com/termalign/termalign-server/internal/search"
	"github.com/termalign/termalign-server/internal/service"
	"github.com/termalign/termalign-server/internal/sse"
	"github.com/termalign/termalign-server/internal/store"
)

// Services groups the business services the handlers call.
type Services struct {
	Catalogue *service.CatalogueService
	Analysis  *service.AnalysisService
	Workspace *service.WorkspaceService
	Export    *service.ExportService
}

// Options tunes the HTTP surface.
type Options struct {
	Title              string
	Version            string
	CORSAllowedOrigins []string
	MaxUploadBytes     int64
	RateLimitPerMinute int
	RateLimitBurst     int
	// Events serves workspace event streams. Nil leaves the route unregistered.
	Events *sse.Handler
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	index           *search.SearchIndex
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	analysisLimiter *ratelimit.KeyedRateLimiter
	events          *sse.Handler
	maxUploadBytes  int64
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, index *search.SearchIndex, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.Title == "" {
		opts.Title = "Termalign API"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware(opts.CORSAllowedOrigins))

	humaConfig := huma.DefaultConfig(opts.Title, opts.Version)
	// Responses carry no $schema link; /api/analyze-report has a fixed shape.
	humaConfig.CreateHooks = nil

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		index:           index,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		analysisLimiter: ratelimit.PerMinute(opts.RateLimitPerMinute, opts.RateLimitBurst),
		events:          opts.Events,
		maxUploadBytes:  opts.MaxUploadBytes,
	}

	s.registerHealthRoutes()
	s.registerAnalysisRoutes()
	s.registerCatalogueRoutes()
	s.registerExportRoutes()
	s.registerWorkspaceRoutes()
	s.registerEventRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.analysisLimiter.Stop()
}
