package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("APP_ENV", "staging")

	cfg, err := FromEnv()
	req.NoError(err)
	req.Equal("5000", cfg.Port)
	req.Equal("gemini-2.5-flash", cfg.GeminiModel)
	req.Equal("sqlite", cfg.DBType)
	req.Equal(10*time.Second, cfg.RateLimitWindow())
	req.Equal(45*time.Second, cfg.DuplicateWindow())
	req.Equal(10*time.Minute, cfg.TranslationCacheTTL())
	req.Equal("user123", cfg.CurrentUser)
	req.NotEmpty(cfg.JWTSecret)
	req.Equal("staging", cfg.AppEnv)
	req.False(cfg.IsProduction())
	req.False(cfg.GeminiReady())
}

func TestFromEnv_Overrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("DB_TYPE", "memory")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("TRANSLATION_CONCURRENCY", "8")

	cfg, err := FromEnv()
	req.NoError(err)
	req.Equal("memory", cfg.DBType)
	req.True(cfg.GeminiReady())
	req.Equal([]string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	req.Equal(8, cfg.TranslationConcurrency)
}

func TestFromEnv_Rejects(t *testing.T) {
	t.Run("app env", func(t *testing.T) {
		t.Setenv("APP_ENV", "dev")
		_, err := FromEnv()
		require.ErrorIs(t, err, ErrInvalidAppEnv)
	})
	t.Run("production secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := FromEnv()
		require.ErrorIs(t, err, ErrMissingSecret)
	})
	t.Run("db type", func(t *testing.T) {
		t.Setenv("APP_ENV", "staging")
		t.Setenv("DB_TYPE", "mongo")
		_, err := FromEnv()
		require.ErrorIs(t, err, ErrInvalidDBType)
	})
}
