// Package server provides the HTTP API for vecstore.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/vecstore/internal/config"
	"github.com/hyperjump/vecstore/internal/indexer"
	"github.com/hyperjump/vecstore/internal/search"
	"github.com/hyperjump/vecstore/internal/store"
	"go.uber.org/zap"
)

// Server is the HTTP server for the vecstore API.
type Server struct {
	store     *store.Store
	ingestor  *indexer.Ingestor
	engine    *search.Engine
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
	startedAt time.Time
}

// NewServer creates a server with the given dependencies.
// ingestor may be nil; then chunks must carry embeddings and searches a query_vector.
func NewServer(st *store.Store, ing *indexer.Ingestor, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:     st,
		ingestor:  ing,
		engine:    search.NewEngine(st, ing, &cfg.Search, logger),
		config:    cfg,
		logger:    logger,
		startedAt: time.Now(),
	}
	s.server = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	timeout := time.Duration(s.config.Server.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Route("/libraries", func(r chi.Router) {
			r.Post("/", s.handleCreateLibrary)
			r.Get("/", s.handleListLibraries)

			r.Route("/{libraryID}", func(r chi.Router) {
				r.Get("/", s.handleGetLibrary)
				r.Put("/", s.handleUpdateLibrary)
				r.Delete("/", s.handleDeleteLibrary)

				r.Post("/search", s.handleSearch)
				r.Post("/search/text", s.handleTextSearch)
				r.Post("/search/hybrid", s.handleHybridSearch)

				r.Route("/documents", func(r chi.Router) {
					r.Post("/", s.handleCreateDocument)

					r.Route("/{documentID}", func(r chi.Router) {
						r.Get("/", s.handleGetDocument)
						r.Put("/", s.handleUpdateDocument)
						r.Delete("/", s.handleDeleteDocument)

						r.Post("/chunks", s.handleCreateChunk)
						r.Get("/chunks/{chunkID}", s.handleGetChunk)
						r.Put("/chunks/{chunkID}", s.handleUpdateChunk)
						r.Delete("/chunks/{chunkID}", s.handleDeleteChunk)
					})
				})
			})
		})
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start serves HTTP and blocks until the server stops. After Stop it returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting server",
		zap.String("addr", s.server.Addr), zap.String("index", string(s.store.IndexType())))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
