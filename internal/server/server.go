// Package server wires the HTTP router, handlers, and their dependencies,
// and owns the listen/shutdown lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rmansoor/watchdex/internal/auth"
	"github.com/rmansoor/watchdex/internal/catalog"
	"github.com/rmansoor/watchdex/internal/handler"
	"github.com/rmansoor/watchdex/internal/middleware"
	sqliteRepo "github.com/rmansoor/watchdex/internal/repository/sqlite"
	"github.com/rmansoor/watchdex/internal/service"
)

// Config holds everything the server needs to start.
type Config struct {
	Port          int
	DBPath        string
	SessionSecret string
	SessionTTL    time.Duration
	TMDBAPIKey    string
	TMDBLanguage  string
}

// Server owns the router, the database connection, and the catalog service.
// The database is closed during graceful shutdown.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	catalog *catalog.Service
}

// New assembles the full dependency chain: database, services, handlers,
// routes. Each layer receives only the interfaces it needs.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	tmdb := catalog.NewTMDBClient(cfg.TMDBAPIKey, cfg.TMDBLanguage, nil)
	jikan := catalog.NewJikanClient(nil)
	catalogService := catalog.NewService(tmdb, jikan, catalog.NewGenreCache(), logger)

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		catalog: catalogService,
	}
	s.setupRoutes(tokens)

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Route map:
//
//	POST   /auth/register                     create an account, start a session
//	POST   /auth/login                        start a session
//	POST   /auth/logout                       clear the session cookie
//	GET    /api/me                            current user            (auth)
//	GET    /api/watchlist                     list saved items        (auth)
//	POST   /api/watchlist                     save an item            (auth)
//	DELETE /api/watchlist/{id}                remove a saved item     (auth)
//	GET    /api/search?query=                 movie/TV search
//	GET    /api/{kind}/{id}/recommendations   movie/TV recommendations
//	GET    /api/genres?kind=                  genre listing
//	GET    /api/browse?kind=&genre=           movie/TV genre browse
//	GET    /api/anime/search?query=           anime search
//	GET    /api/anime/browse?genre=           anime genre browse
//	GET    /api/anime/{id}/recommendations    anime recommendations
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	passwords := auth.NewPasswordService()
	accountService := service.NewAccountService(s.db, passwords, s.logger)
	watchlistService := service.NewWatchlistService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(accountService, tokens, s.logger)
	watchlistHandler := handler.NewWatchlistHandler(watchlistService, s.logger)
	catalogHandler := handler.NewCatalogHandler(s.catalog, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public catalog routes. The anime routes are registered before the
		// {kind} wildcard so "anime" never matches as a kind segment.
		r.Get("/search", catalogHandler.HandleSearch)
		r.Get("/genres", catalogHandler.HandleGenres)
		r.Get("/browse", catalogHandler.HandleBrowse)
		r.Get("/anime/search", catalogHandler.HandleAnimeSearch)
		r.Get("/anime/browse", catalogHandler.HandleAnimeBrowse)
		r.Get("/anime/{id}/recommendations", catalogHandler.HandleAnimeRecommendations)
		r.Get("/{kind}/{id}/recommendations", catalogHandler.HandleRecommendations)

		// Session-gated routes.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Get("/watchlist", watchlistHandler.HandleList)
			r.Post("/watchlist", watchlistHandler.HandleAdd)
			r.Delete("/watchlist/{id}", watchlistHandler.HandleRemove)
		})
	})
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start refreshes the genre cache, then serves HTTP until SIGINT/SIGTERM.
// Shutdown drains in-flight requests for up to 30 seconds and closes the
// database afterwards.
func (s *Server) Start() error {
	defer s.db.Close()

	// One refresh at startup. A provider outage here is tolerated: lookups
	// against an empty mapping simply miss.
	s.catalog.RefreshGenres(context.Background())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
