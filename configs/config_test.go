package configs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/acme/cartsvc/configs"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("CART_TTL", "")
	t.Setenv("CART_COOKIE_SECRET", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, cfg.Cart.TTL)
	assert.Equal(t, 3, cfg.Cart.BreakerThreshold)
	assert.NotEmpty(t, cfg.Cart.CookieSecret, "dev gets a default cookie secret")
	assert.False(t, cfg.Tracing.Enabled())
}

func TestLoad_ParsesCartTTLSeconds(t *testing.T) {
	t.Setenv("CART_TTL", "123")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 123*time.Second, cfg.Cart.TTL)
}

func TestLoad_RejectsNonNumericCartTTL(t *testing.T) {
	t.Setenv("CART_TTL", "not-a-number")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CART_TTL")
}

func TestLoad_ProdRequiresCookieSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CART_COOKIE_SECRET", "")
	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("CART_COOKIE_SECRET", "a-production-secret-of-length")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "a-production-secret-of-length", cfg.Cart.CookieSecret)
}

func TestLoad_TracingFollowsEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Enabled())
	assert.True(t, cfg.Redis.Tracing)
}

func TestLoad_AllowedOriginsList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example, ,https://admin.example")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.Server.AllowedOrigins)
}

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Environment: config.EnvDev},
		Redis:  config.RedisConfig{Host: "localhost", Port: "6379"},
		Cart:   config.CartConfig{TTL: time.Hour, CookieSecret: "0123456789abcdef", BreakerThreshold: 3},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"valid", func(c *config.Config) {}, false},
		{"bad port", func(c *config.Config) { c.Server.Port = "http" }, true},
		{"unknown environment", func(c *config.Config) { c.Server.Environment = "qa" }, true},
		{"zero threshold", func(c *config.Config) { c.Cart.BreakerThreshold = 0 }, true},
		{"short secret", func(c *config.Config) { c.Cart.CookieSecret = "short" }, true},
		{"sub-second ttl", func(c *config.Config) { c.Cart.TTL = time.Millisecond }, true},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
