// Package server wires the application together: repositories, services,
// handlers, routes, the background reconcile job, and graceful shutdown.
// This is the composition root — every dependency is constructed here and
// injected downward; no package reaches for ambient state.
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

	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/config"
	"github.com/sakif/imagevault/internal/handler"
	"github.com/sakif/imagevault/internal/middleware"
	sqliteRepo "github.com/sakif/imagevault/internal/repository/sqlite"
	"github.com/sakif/imagevault/internal/service"
	"github.com/sakif/imagevault/internal/session"
	"github.com/sakif/imagevault/internal/storage"
	"github.com/sakif/imagevault/internal/upload"
)

// Server owns the router, the database, and the reconcile job.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	vault  *service.VaultService
}

// New assembles the full dependency chain:
// sqlite.DB → repositories → services → handlers → routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	objects, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening upload root: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.SecretKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	flashes := session.NewFlashStore(cfg.SecretKey)
	validator := upload.NewValidator(cfg.AllowedExtensions)

	authService := service.NewAuthService(db, auth.NewPasswordService(), logger)
	vaultService := service.NewVaultService(db, objects, validator, logger)

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
		vault:  vaultService,
	}

	s.setupRoutes(authService, vaultService, tokens, flashes)
	return s, nil
}

// setupRoutes configures middleware and the route table:
//
//	GET/POST /register           — create account
//	GET/POST /login              — authenticate
//	GET      /logout             — destroy session      (auth)
//	GET/POST /                   — list / upload files  (auth)
//	GET      /download/{fileID}  — stream attachment    (auth)
//	GET      /delete/{fileID}    — delete own file      (auth)
func (s *Server) setupRoutes(authService *service.AuthService, vaultService *service.VaultService, tokens *auth.TokenService, flashes *session.FlashStore) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Recoverer(s.logger, handler.ServerError))
	s.router.Use(middleware.Logger(s.logger))

	s.router.NotFound(handler.NotFound)

	authHandler := handler.NewAuthHandler(authService, tokens, flashes, s.logger)
	vaultHandler := handler.NewVaultHandler(vaultService, flashes, s.cfg.MaxUploadBytes, s.logger)

	s.router.Get("/register", authHandler.HandleRegisterPage)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/logout", authHandler.HandleLogout)
		r.Get("/", vaultHandler.HandleIndex)
		r.Post("/", vaultHandler.HandleUpload)
		r.Get("/download/{fileID}", vaultHandler.HandleDownload)
		r.Get("/delete/{fileID}", vaultHandler.HandleDelete)
	})
}

// Handler exposes the assembled router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without running Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, stop
// the reconcile job, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	// One sweep at startup repairs whatever a crash left behind, then the
	// job keeps registry and storage root in agreement on a period.
	jobCtx, stopJob := context.WithCancel(context.Background())
	defer stopJob()
	go s.reconcileLoop(jobCtx)

	srv := &http.Server{
		Addr:         s.cfg.Addr,
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
			slog.String("addr", s.cfg.Addr),
			slog.String("database", s.cfg.DBPath),
			slog.String("uploads", s.cfg.UploadDir),
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

// reconcileLoop runs one sweep immediately and then on every tick until
// the context is cancelled.
func (s *Server) reconcileLoop(ctx context.Context) {
	s.runReconcile(ctx)

	ticker := time.NewTicker(s.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runReconcile(ctx)
		}
	}
}

func (s *Server) runReconcile(ctx context.Context) {
	rows, objects, err := s.vault.Reconcile(ctx)
	if err != nil {
		s.logger.Error("reconcile sweep failed", slog.String("error", err.Error()))
		return
	}
	if rows > 0 || objects > 0 {
		s.logger.Info("reconcile sweep completed",
			slog.Int("orphanedRowsRemoved", rows),
			slog.Int("orphanedObjectsRemoved", objects),
		)
	}
}
