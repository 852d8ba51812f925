package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "REQUEST_TIMEOUT", "DATABASE_DSN", "DATABASE_URL", "RUN_MIGRATIONS", "JWT_SECRET_KEY", "TOKEN_TTL",
	"STRIPE_SECRET_KEY", "STRIPE_API_URL", "FRONTEND_URL", "PUBLIC_BASE_URL", "STATIC_DIR", "CURRENCY",
	"CORS_ALLOW_ORIGINS", "RABBITMQ_URL", "PUBLISH_EVENTS",
}

// isolate runs the test from an empty directory with the config keys cleared.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "") // registers restore on cleanup
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.PublishEvents)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "http://localhost:5000", cfg.PublicBaseURL)
	assert.Empty(t, cfg.StripeSecretKey)
	assert.True(t, cfg.UsingDefaultSecret())
}

func TestLoadOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8090")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("REQUEST_TIMEOUT", "garbage")
	t.Setenv("PUBLISH_EVENTS", "true")
	t.Setenv("RUN_MIGRATIONS", "0")
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_x")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.PublishEvents)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, "sk_test_x", cfg.StripeSecretKey)
	assert.False(t, cfg.UsingDefaultSecret())
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FRONTEND_URL=http://shop.local\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://shop.local", cfg.FrontendURL)
	assert.Equal(t, "7100", cfg.Port, "environment wins over .env")
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	isolate(t)
	t.Setenv("TOKEN_TTL", "-1h")

	_, err := Load()
	require.Error(t, err)
}
