// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects handlers, middleware, and
// routes, and decides:
//   - Which URL patterns map to which handler functions
//   - What middleware runs on which routes
//   - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go loads config.Config → server.New
//	server.New opens the store (mongo or sqlite) and builds:
//	  TokenService, PasswordService, geo.Client
//	  → AuthService, BlogService, ResourceService
//	  → UserHandler, AuthHandler, BlogHandler, ResourceHandler
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/setupRoutes) rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/donation-hub/internal/auth"
	"github.com/sakif/donation-hub/internal/config"
	"github.com/sakif/donation-hub/internal/geo"
	"github.com/sakif/donation-hub/internal/handler"
	"github.com/sakif/donation-hub/internal/middleware"
	"github.com/sakif/donation-hub/internal/service"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store connection. Start closes it after the HTTP
// server has drained; callers that never Start must call Close.
type Server struct {
	router   *chi.Mux
	config   config.Config
	logger   *slog.Logger
	store    *store
	registry *prometheus.Registry
}

// New opens the configured store and builds the router. A store that cannot
// be reached is an error: the server does not start half-connected.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    st,
		registry: prometheus.NewRegistry(),
	}

	if err := s.setupRoutes(); err != nil {
		_ = st.close(context.Background())
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store.
func (s *Server) Close(ctx context.Context) error {
	return s.store.close(ctx)
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                                 → liveness string
//	GET    /metrics                          → Prometheus exposition
//	POST   /api/users                        → register
//	POST   /api/users/resource               → add resource            [auth]
//	PUT    /api/users/resource/{id}          → update own resource     [auth]
//	DELETE /api/users/{id}                   → delete own resource     [auth]
//	GET    /api/auth                         → current user            [auth]
//	POST   /api/auth                         → login
//	GET    /api/blogs                        → list                    [auth]
//	GET    /api/blogs/{id}                   → get one                 [auth]
//	POST   /api/blogs                        → create (admin)          [auth]
//	DELETE /api/blogs/{id}                   → delete (admin)          [auth]
//	PUT    /api/blogs/like/{id}              → like                    [auth]
//	PUT    /api/blogs/unlike/{id}            → unlike                  [auth]
//	POST   /api/blogs/comment/{id}           → comment                 [auth]
//	DELETE /api/blogs/comment/{id}/{commentID} → delete own comment    [auth]
//	GET    /api/resources                    → list all
//	GET    /api/resources/{filterby}         → filter by pincode       [auth]
//	DELETE /api/resources/{id}               → delete own resource     [auth]
//
// MIDDLEWARE ORDER MATTERS:
// RequestID first so every later layer can log it, Recoverer last of the
// globals so a panic is still logged and counted as a 500.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords, err := auth.NewPasswordService(s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("creating password service: %w", err)
	}
	locator := geo.NewClient(s.config.PincodeAPIURL, s.config.PincodeAPITimeout, s.logger)

	authService := service.NewAuthService(s.store.users, tokens, passwords, s.logger)
	blogService := service.NewBlogService(s.store.blogs, s.store.users, s.config.AdminEmails(), s.logger)
	resourceService := service.NewResourceService(s.store.resources, locator, s.logger)

	userHandler := handler.NewUserHandler(authService, resourceService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	blogHandler := handler.NewBlogHandler(blogService, s.logger)
	resourceHandler := handler.NewResourceHandler(resourceService, s.logger)

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(s.registry)

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(chimiddleware.Recoverer)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API running"))
	})
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.HandleRegister)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/resource", userHandler.HandleAddResource)
				r.Put("/resource/{id}", userHandler.HandleUpdateResource)
				r.Delete("/{id}", userHandler.HandleDeleteResource)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(requireAuth).Get("/", authHandler.HandleCurrentUser)
			r.Post("/", authHandler.HandleLogin)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", blogHandler.HandleList)
			r.Post("/", blogHandler.HandleCreate)
			r.Get("/{id}", blogHandler.HandleGet)
			r.Delete("/{id}", blogHandler.HandleDelete)
			r.Put("/like/{id}", blogHandler.HandleLike)
			r.Put("/unlike/{id}", blogHandler.HandleUnlike)
			r.Post("/comment/{id}", blogHandler.HandleComment)
			r.Delete("/comment/{id}/{commentID}", blogHandler.HandleDeleteComment)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", resourceHandler.HandleList)
			r.With(requireAuth).Get("/{filterby}", resourceHandler.HandleFilter)
			r.With(requireAuth).Delete("/{id}", resourceHandler.HandleDelete)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the store (disconnect from MongoDB / release the SQLite file)
func (s *Server) Start() error {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.store.close(ctx); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.store.describe),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
