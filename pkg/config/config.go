package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting read from the environment.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"staging"`
	Port   string `envconfig:"PORT" default:"5000"`

	JWTSecret string        `envconfig:"JWT_SECRET_KEY"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	IsGeminiEnabled bool   `envconfig:"IS_GEMINI_ENABLED" default:"true"`

	// DBType selects the task and profile store: memory, sqlite, postgres or mysql.
	DBType string `envconfig:"DB_TYPE" default:"sqlite"`
	DBDSN  string `envconfig:"DB_DSN" default:"app.db"`

	RateLimitWindowSeconds int `envconfig:"RATE_LIMIT_WINDOW_SECONDS" default:"10"`
	RateLimitCapacity      int `envconfig:"RATE_LIMIT_CAPACITY" default:"5"`
	UserConcurrencyLimit   int `envconfig:"USER_CONCURRENCY_LIMIT" default:"2"`
	DuplicateWindowSeconds int `envconfig:"DUPLICATE_WINDOW_SECONDS" default:"45"`

	TranslationCacheTTLSeconds int `envconfig:"TRANSLATION_CACHE_TTL_SECONDS" default:"600"`
	TranslationCacheMaxItems   int `envconfig:"TRANSLATION_CACHE_MAX_ITEMS" default:"500"`
	TranslationConcurrency     int `envconfig:"TRANSLATION_CONCURRENCY" default:"4"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// CurrentUser is seeded with the assistant greeting and a note from SeedPeer.
	CurrentUser  string `envconfig:"CURRENT_USER" default:"user123"`
	SeedPeer     string `envconfig:"SEED_PEER" default:"user002"`
	SeedPassword string `envconfig:"SEED_PASSWORD" default:"password123"`

	UploadDir     string   `envconfig:"UPLOAD_DIR" default:"uploads"`
	PublicBaseURL string   `envconfig:"PUBLIC_BASE_URL"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"*"`
}

var (
	ErrInvalidAppEnv  = errors.New("APP_ENV must be 'staging' or 'production'")
	ErrMissingSecret  = errors.New("JWT_SECRET_KEY must be set in production")
	ErrInvalidDBType  = errors.New("DB_TYPE must be one of memory, sqlite, postgres, mysql")
	devFallbackSecret = "dev-secret-change-me"
)

// Load reads .env outside production, then the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// a missing .env is fine; the host environment still applies
		_ = godotenv.Load()
	}
	return FromEnv()
}

// FromEnv fills a Config from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains([]string{"staging", "production"}, c.AppEnv) {
		return ErrInvalidAppEnv
	}
	if !slices.Contains([]string{"memory", "sqlite", "postgres", "mysql"}, c.DBType) {
		return ErrInvalidDBType
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return ErrMissingSecret
		}
		c.JWTSecret = devFallbackSecret
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// GeminiReady reports whether assistant and translation calls can reach Gemini.
func (c *Config) GeminiReady() bool {
	return c.IsGeminiEnabled && c.GeminiAPIKey != ""
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) DuplicateWindow() time.Duration {
	return time.Duration(c.DuplicateWindowSeconds) * time.Second
}

func (c *Config) TranslationCacheTTL() time.Duration {
	return time.Duration(c.TranslationCacheTTLSeconds) * time.Second
}
