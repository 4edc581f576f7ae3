// Package server exposes the catalog, export and registration features as
// a JSON service.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/s0up4200/pokedex/export"
	"github.com/s0up4200/pokedex/filter"
	"github.com/s0up4200/pokedex/pokeapi"
	"github.com/s0up4200/pokedex/registration"
)

// Config holds server configuration
type Config struct {
	Address        string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Deps are the collaborators the handlers use
type Deps struct {
	API               pokeapi.API
	Exporter          *export.Exporter
	Filters           *filter.Manager
	Validator         *registration.Validator
	Countries         *registration.Countries
	Submissions       *registration.Log
	SpriteTemplate    string
	EnrichConcurrency int
}

// Server serves the JSON API
type Server struct {
	cfg        Config
	deps       Deps
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server; routes are registered immediately
func New(cfg Config, deps Deps, logger zerolog.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With().Str("component", "server").Logger(),
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/pokemon", func(r chi.Router) {
			r.Get("/", s.handleCatalog)
			r.Get("/search", s.handleSearch)
			r.Get("/{name}", s.handlePokemon)
		})
		r.Get("/filters", s.handleFilters)
		r.Post("/export", s.handleExport)
		r.Get("/countries", s.handleCountries)
		r.Route("/registrations", func(r chi.Router) {
			r.Get("/", s.handleListRegistrations)
			r.Post("/", s.handleCreateRegistration)
		})
	})

	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.cfg.Address).Msg("Server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
