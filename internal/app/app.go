package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bookstore/bookstore-api/internal/audit"
	"bookstore/bookstore-api/internal/auth"
	"bookstore/bookstore-api/internal/catalogue"
	"bookstore/bookstore-api/internal/config"
	"bookstore/bookstore-api/internal/httpserver"
	"bookstore/bookstore-api/internal/logging"
	"bookstore/bookstore-api/internal/seed"
)

type App struct {
	cfg     config.Config
	log     *slog.Logger
	handler http.Handler
	server  *httpserver.Server
}

func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	data, err := seed.Load(cfg.CatalogueSeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed data: %w", err)
	}
	loadedAt := time.Now().UTC()
	books := catalogue.NewStore(data.CatalogueBooks(loadedAt))

	authService, err := auth.NewService(
		auth.NewInMemoryUserStore(data.AuthUsers(loadedAt)...),
		auth.NewInMemorySessionStore(),
		auth.ServiceConfig{
			TokenSecret: cfg.Auth.JWTSecret,
			TokenTTL:    cfg.Auth.TokenTTL,
			SessionTTL:  cfg.Auth.SessionTTL,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	auditLogger := audit.NewLogger(cfg.AuditLogFile)
	if auditLogger.Enabled() {
		logger.Info("audit log enabled", "path", cfg.AuditLogFile)
	}
	logger.Info("seed data loaded", "books", len(data.Books), "users", len(data.Users))

	deps := httpserver.Deps{
		Catalogue: books,
		Auth:      authService,
		Authenticator: auth.Chain{
			auth.SessionAuthenticator{Sessions: authService},
			auth.TokenAuthenticator{Tokens: authService},
		},
		Audit:        auditLogger,
		Logger:       logger,
		CookieSecure: cfg.Auth.CookieSecure,
	}

	return &App{
		cfg:     cfg,
		log:     logger,
		handler: httpserver.NewHandler(deps),
		server:  httpserver.New(cfg.HTTP, deps),
	}, nil
}

// Handler is the routed API without the listener, for in-process callers.
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)
		errCh <- a.server.Start()
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}
