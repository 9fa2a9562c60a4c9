// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled in one place:
//
//	config → mongo.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete Mongo types), handlers get services (not
// repositories). Nothing here contains business logic.
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it testable (a test can
// build a Server without running main) and keeps main.go minimal.
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
	"github.com/go-chi/cors"

	"github.com/sakif/tutorial-hub/internal/auth"
	"github.com/sakif/tutorial-hub/internal/config"
	"github.com/sakif/tutorial-hub/internal/handler"
	"github.com/sakif/tutorial-hub/internal/middleware"
	mongoRepo "github.com/sakif/tutorial-hub/internal/repository/mongo"
	"github.com/sakif/tutorial-hub/internal/service"
)

// Server owns the router and the resources that outlive a single request.
//
// RESOURCE MANAGEMENT:
// The Server owns the Mongo connection pool. Start() closes it during
// graceful shutdown, after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *mongoRepo.DB
}

// New assembles the full dependency chain and wires routes.
//
// The ctx bounds startup work — the Mongo connect/ping. It is not retained.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := mongoRepo.New(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		_ = db.Close(ctx) // clean up the pool if wiring fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                          → liveness check (no auth)
//	POST   /api/auth/register                → create account, issue token
//	POST   /api/auth/login                   → authenticate, issue token
//	GET    /api/auth/me                      → caller's account          [auth]
//	PUT    /api/auth/profile                 → partial profile update    [auth]
//	POST   /api/tutorials                    → create tutorial           [auth]
//	GET    /api/tutorials?category=&search=  → list/filter               [auth]
//	GET    /api/tutorials/my                 → caller's tutorials        [auth]
//	GET    /api/tutorials/{id}               → fetch one                 [auth]
//	PUT    /api/tutorials/{id}               → update (owner only)       [auth]
//	DELETE /api/tutorials/{id}               → delete + cascade          [auth]
//	POST   /api/bookmarks                    → idempotent create         [auth]
//	GET    /api/bookmarks                    → caller's saved tutorials  [auth]
//	DELETE /api/bookmarks/{tutorialId}       → remove bookmark           [auth]
//	GET    /api/bookmarks/check/{tutorialId} → existence check           [auth]
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so every later middleware and handler can tag its
// logs; Recoverer runs before our logger so a panic still produces a
// request log line with a 500.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID) // X-Request-ID for tracing
	s.router.Use(chimiddleware.RealIP)    // real client IP from proxy headers
	s.router.Use(chimiddleware.Recoverer) // panics become 500s, not crashes
	s.router.Use(middleware.Logger(s.logger))

	// The browser frontend is served from a different origin, so every API
	// response needs CORS headers. Allowed origins come from config.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// === Auth infrastructure ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === Repositories ===
	userRepo := mongoRepo.NewUserRepository(s.db)
	tutorialRepo := mongoRepo.NewTutorialRepository(s.db)
	bookmarkRepo := mongoRepo.NewBookmarkRepository(s.db)

	// === Services ===
	accountService := service.NewAuthService(userRepo, tokens, passwords, s.logger)
	tutorialService := service.NewTutorialService(tutorialRepo, bookmarkRepo, s.logger)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, tutorialRepo, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(accountService, s.logger)
	tutorialHandler := handler.NewTutorialHandler(tutorialService, s.logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, s.logger)

	// The resolver validates bearer tokens and loads the caller's account;
	// RequireAuth turns it into middleware for the protected routes.
	resolver := auth.NewResolver(tokens, userRepo)
	requireAuth := auth.RequireAuth(resolver)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public: the only two routes reachable without a token.
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Everything else requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", authHandler.HandleMe)
			r.Put("/auth/profile", authHandler.HandleUpdateProfile)

			// "/tutorials/my" is registered alongside "/tutorials/{id}";
			// chi matches static segments before wildcards, so "my" never
			// falls through to the {id} handler.
			r.Post("/tutorials", tutorialHandler.HandleCreate)
			r.Get("/tutorials", tutorialHandler.HandleList)
			r.Get("/tutorials/my", tutorialHandler.HandleListMine)
			r.Get("/tutorials/{id}", tutorialHandler.HandleGetByID)
			r.Put("/tutorials/{id}", tutorialHandler.HandleUpdate)
			r.Delete("/tutorials/{id}", tutorialHandler.HandleDelete)

			r.Post("/bookmarks", bookmarkHandler.HandleCreate)
			r.Get("/bookmarks", bookmarkHandler.HandleList)
			r.Delete("/bookmarks/{tutorialId}", bookmarkHandler.HandleDelete)
			r.Get("/bookmarks/check/{tutorialId}", bookmarkHandler.HandleCheck)
		})
	})

	return nil
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until a shutdown signal arrives.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests to finish
//  3. Disconnect from Mongo, returning pooled connections
//
// Skipping step 3 would leak the pool and can drop writes buffered in the
// driver.
func (s *Server) Start() error {
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
			slog.String("database", s.config.DBName),
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

		if err := s.db.Close(ctx); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
