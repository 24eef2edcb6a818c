// Package api exposes completed pipeline audit records over a read-only
// HTTP interface.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xranano/AI-audio-pipeline/internal/config"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(records RecordReader, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(records, log),
		middleware: NewMiddleware(log),
		config:     cfg,
		logger:     log.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Audit record routes
		router.Get("/records", r.handler.GetRecords)
		router.Get("/records/{id}", r.handler.GetRecordByID)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
