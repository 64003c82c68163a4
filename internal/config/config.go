// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8000"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	// Cache (Redis)
	RedisURL       string `env:"REDIS_URL,required"`
	RedisPoolSize  int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"minutes:"`

	// Public URL used when building links to uploaded media
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Session tokens
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"300m"`

	// Web search (Tavily). Slots are tried in numeric order.
	TavilyAPIKey1 string        `env:"TAVILY_API_KEY_1"`
	TavilyAPIKey2 string        `env:"TAVILY_API_KEY_2"`
	TavilyAPIKey3 string        `env:"TAVILY_API_KEY_3"`
	TavilyAPIKey4 string        `env:"TAVILY_API_KEY_4"`
	TavilyAPIKey5 string        `env:"TAVILY_API_KEY_5"`
	TavilyBaseURL string        `env:"TAVILY_BASE_URL" envDefault:"https://api.tavily.com"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"15s"`

	// Embeddings and vector index
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	WeaviateURL    string `env:"WEAVIATE_URL"`
	WeaviateClass  string `env:"WEAVIATE_CLASS" envDefault:"MeetingEmbedding"`

	// Outbound email. Empty credentials switch the mailer to mock mode.
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPEmail    string `env:"SMTP_EMAIL"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Signup checks the recipient domain has MX records when enabled.
	EmailCheckDeliverability bool `env:"EMAIL_CHECK_DELIVERABILITY" envDefault:"true"`

	// Media uploads
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"static/uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`

	// Rate limiting for signup/login (per client IP)
	RateLimitAuthEnabled bool `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"true"`
	RateLimitAuthRPS     int  `env:"RATE_LIMIT_AUTH_RPS" envDefault:"5"`
	RateLimitAuthBurst   int  `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// Request body size limit in bytes for JSON endpoints (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// TavilyKeys returns the configured search credentials in slot order 1..5.
// Blank slots are skipped, so the order of the remaining keys is preserved.
func (c *Config) TavilyKeys() []string {
	slots := []string{
		c.TavilyAPIKey1,
		c.TavilyAPIKey2,
		c.TavilyAPIKey3,
		c.TavilyAPIKey4,
		c.TavilyAPIKey5,
	}

	keys := make([]string, 0, len(slots))
	for _, k := range slots {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// PrimaryTavilyKey returns the slot 1 credential used by the agent tools.
func (c *Config) PrimaryTavilyKey() string {
	return strings.TrimSpace(c.TavilyAPIKey1)
}

// SMTPConfigured reports whether real email delivery is possible.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPEmail != "" && c.SMTPPassword != ""
}

// IndexConfigured reports whether semantic indexing has its dependencies.
func (c *Config) IndexConfigured() bool {
	return c.OpenAIAPIKey != "" && c.WeaviateURL != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
