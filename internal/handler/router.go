package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/minutes/minutes/internal/media"
	"github.com/minutes/minutes/internal/middleware"
)

// RouterConfig wires handlers and middleware into the HTTP surface.
type RouterConfig struct {
	Logger *slog.Logger

	Health   *HealthHandler
	Auth     *AuthHandler
	Meetings *MeetingHandler
	Tools    *ToolsHandler
	Media    *MediaHandler
	MCP      *MCPHandler
	// Metrics serves /metrics when set.
	Metrics http.Handler

	RequireAuth func(http.Handler) http.Handler
	SignupLimit func(http.Handler) http.Handler
	LoginLimit  func(http.Handler) http.Handler

	CORS     middleware.CORSConfig
	Security middleware.SecurityConfig
	// MaxBodySize limits JSON request bodies. Upload routes use their own limit.
	MaxBodySize int64
	// StaticDir holds uploaded media served under media.URLPrefix.
	StaticDir string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	passthrough := func(next http.Handler) http.Handler { return next }
	signupLimit, loginLimit := cfg.SignupLimit, cfg.LoginLimit
	if signupLimit == nil {
		signupLimit = passthrough
	}
	if loginLimit == nil {
		loginLimit = passthrough
	}

	// JSON endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))

		r.With(signupLimit).Post("/auth/signup", cfg.Auth.Signup)
		r.With(loginLimit).Post("/auth/login-json", cfg.Auth.Login)
		r.Post("/auth/check-email", cfg.Auth.CheckEmail)

		r.Post("/tools/fact-check", cfg.Tools.FactCheck)
		r.Post("/tools/send-email", cfg.Tools.SendEmail)
		r.Post("/nlp/extract-entities", cfg.Tools.ExtractEntities)

		r.Post("/mcp/process", cfg.MCP.Process)
		r.Get("/mcp/tools", cfg.MCP.Tools)

		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAuth)

			r.Get("/users/me", cfg.Auth.Me)
			r.Get("/meetings", cfg.Meetings.List)
			r.Post("/meetings", cfg.Meetings.Create)
			r.Post("/tools/semantic-search", cfg.Meetings.SemanticSearch)
			r.Post("/debug/regenerate-embeddings", cfg.Meetings.RegenerateEmbeddings)
		})
	})

	// Multipart endpoints; formFile applies the upload limit.
	r.Post("/tools/parse-pdf", cfg.Tools.ParsePDF)
	r.Post("/upload-media", cfg.Media.Upload)

	if cfg.StaticDir != "" {
		prefix := strings.TrimSuffix(media.URLPrefix, "/")
		files := http.StripPrefix(media.URLPrefix, http.FileServer(noDirListing{http.Dir(cfg.StaticDir)}))
		r.Get(prefix+"/*", files.ServeHTTP)
	}

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}

// noDirListing hides directory indexes of the upload directory.
type noDirListing struct {
	http.FileSystem
}

func (n noDirListing) Open(name string) (http.File, error) {
	f, err := n.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
