// Package main is the entrypoint for the Minutes API server.
package main

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/minutes/minutes/internal/auth"
	"github.com/minutes/minutes/internal/cache"
	"github.com/minutes/minutes/internal/config"
	"github.com/minutes/minutes/internal/handler"
	"github.com/minutes/minutes/internal/index"
	"github.com/minutes/minutes/internal/mail"
	"github.com/minutes/minutes/internal/media"
	"github.com/minutes/minutes/internal/metrics"
	"github.com/minutes/minutes/internal/middleware"
	"github.com/minutes/minutes/internal/nlp"
	"github.com/minutes/minutes/internal/repository"
	"github.com/minutes/minutes/internal/search"
	"github.com/minutes/minutes/internal/server"
	"github.com/minutes/minutes/internal/service"
	"github.com/minutes/minutes/internal/tools"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.WithMaxConns(cfg.DBMaxConns))
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := repo.Migrate(ctx, logger); err != nil {
			logger.Error("failed to apply migrations", "error", sanitizeError(err, cfg.DatabaseURL))
			os.Exit(1)
		}
	}

	cacheClient, err := cache.New(ctx, cfg.RedisURL,
		cache.WithPoolSize(cfg.RedisPoolSize),
		cache.WithKeyPrefix(cfg.RedisKeyPrefix),
	)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	recorder := metrics.NewPrometheus()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)

	// Search
	keys := cfg.TavilyKeys()
	if len(keys) == 0 {
		logger.Warn("no search credentials configured, fact-check will fail")
	}
	searchClient := search.NewClient(cfg.TavilyBaseURL, search.NewHTTPClient(cfg.SearchTimeout))
	factChecker := search.NewFailover(searchClient, keys, logger, recorder)

	registry := tools.NewRegistry(logger, recorder)
	registry.MustRegister(tools.NewSearchWebTool(searchClient, cfg.PrimaryTavilyKey()))
	registry.MustRegister(tools.NewQueryDatabaseTool(tools.NewPQSummarySearcher(cfg.DatabaseURL)))

	// Semantic index. Meetings are still stored when it is not configured.
	var indexer service.Indexer
	if cfg.IndexConfigured() {
		store, err := index.NewWeaviateStore(cfg.WeaviateURL, cfg.WeaviateClass)
		if err != nil {
			logger.Error("invalid vector index configuration", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureSchema(ctx, logger); err != nil {
			logger.Warn("vector index schema not ready", "error", err)
		}
		embedder := index.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
		indexer = index.New(embedder, store, logger)
		healthHandler.AddOptional("vector_index", store)
	} else {
		logger.Warn("semantic index disabled", "reason", "OPENAI_API_KEY or WEAVIATE_URL not set")
	}

	mediaStore, err := media.NewStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Error("failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	mailer := mail.NewSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPEmail,
		Password: cfg.SMTPPassword,
	}, logger)
	if !cfg.SMTPConfigured() {
		logger.Info("SMTP credentials not set, email is mocked")
	}

	var verifier service.EmailVerifier
	if cfg.EmailCheckDeliverability {
		verifier = service.MXVerifier{Resolver: net.DefaultResolver}
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(repo, issuer, verifier, logger, recorder)
	meetingService := service.NewMeetingService(repo, indexer, logger, recorder)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: cacheClient,
		Enabled: cfg.RateLimitAuthEnabled,
		RPS:     cfg.RateLimitAuthRPS,
		Burst:   cfg.RateLimitAuthBurst,
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := handler.NewRouter(handler.RouterConfig{
		Logger:   logger,
		Health:   healthHandler,
		Auth:     handler.NewAuthHandler(authService, logger),
		Meetings: handler.NewMeetingHandler(meetingService, logger),
		Tools: handler.NewToolsHandler(handler.ToolsConfig{
			FactChecker:   factChecker,
			Entities:      nlp.NewExtractor(nil),
			Mailer:        mailer,
			Logger:        logger,
			MaxUploadSize: cfg.MaxUploadSize,
		}),
		Media:   handler.NewMediaHandler(mediaStore, cfg.MaxUploadSize, logger),
		MCP:     handler.NewMCPHandler(registry),
		Metrics: recorder.Handler(),
		RequireAuth: middleware.Auth(middleware.AuthConfig{
			Logger:   logger,
			Verifier: issuer,
			Cache:    cacheClient,
		}),
		SignupLimit: middleware.RateLimitIP(rateLimitCfg, "signup"),
		LoginLimit:  middleware.RateLimitIP(rateLimitCfg, "login"),
		CORS:        corsCfg,
		Security: middleware.SecurityConfig{
			IsDevelopment: cfg.IsDevelopment(),
			StaticPrefix:  "/static/",
		},
		MaxBodySize: cfg.MaxRequestBodySize,
		StaticDir:   mediaStore.Dir(),
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"public_base_url", cfg.PublicBaseURL,
		"env", cfg.AppEnv,
		"search_keys", len(keys),
		"semantic_index", indexer != nil,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "minutes-api")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var secretPattern = regexp.MustCompile(`(?i)(password|api_key|apikey)=[^\s&]+`)

// redactURL drops the password from a connection URL and keeps the user.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return secretPattern.ReplaceAllString(msg, "$1=redacted")
}
