package httpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"bookstore/bookstore-api/internal/auth"
	"bookstore/bookstore-api/internal/catalogue"
	"bookstore/bookstore-api/internal/config"
)

type CatalogueService interface {
	List() []catalogue.Summary
	Details() []catalogue.Book
	FindByISBN(isbn string) (catalogue.Book, bool)
	FindByAuthor(query string) []catalogue.Book
	FindByTitle(query string) []catalogue.Book
	FindByExactTitle(title string) []catalogue.Book
	Reviews(isbn string) (catalogue.ReviewStats, error)
	ReviewsByID(id string) (catalogue.ReviewStats, error)
	UserReview(isbn, username string) (catalogue.UserReview, error)
	ReviewsByUser(username string) []catalogue.UserReview
	UpsertReview(isbn, username string, in catalogue.ReviewInput) (catalogue.UpsertResult, error)
	DeleteReview(isbn, username string) (catalogue.DeleteResult, error)
	DeleteUserReviews(username string) ([]catalogue.UserReview, error)
}

type AuthService interface {
	Register(username, password, email string) (auth.Registration, error)
	Login(username, password string) (auth.LoginResult, error)
	Logout(sessionID string) bool
	VerifyToken(token string) (auth.Claims, error)
	UsernameAvailable(username string) bool
	Stats() auth.Stats
}

type AuditLogger interface {
	Log(actor, action, target, outcome, detail string) error
}

type Deps struct {
	Catalogue CatalogueService
	Auth      AuthService
	// Authenticator resolves the caller on protected routes; any
	// auth.Authenticator works, typically an auth.Chain of session and
	// bearer token strategies.
	Authenticator auth.Authenticator
	Audit         AuditLogger
	Logger        *slog.Logger
	CookieSecure  bool
}

type Server struct {
	httpServer *http.Server
}

func New(cfg config.HTTPConfig, deps Deps) *Server {
	deps = deps.withDefaults()
	handler := NewHandler(deps)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      withRequestID(withRequestLog(deps.Logger, handler)),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

func NewHandler(deps Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		if deps.Catalogue == nil || deps.Auth == nil {
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	registerCatalogueHandlers(mux, deps)
	registerAuthHandlers(mux, deps)
	registerReviewHandlers(mux, deps)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	return withRecover(deps.Logger, mux)
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
