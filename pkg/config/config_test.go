package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "PORT", "APP_ENV", "PRINTIFY_RATE_LIMIT", "PRINTIFY_RATE_BURST", "PRINTIFY_WEBHOOK_TOPICS", "S3_USE_SSL", "S3_PRESIGN_TTL", "PRINTIFY_BASE_URL", "MIGRATIONS_PATH"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "https://api.printify.com", cfg.Printify.BaseURL)
	assert.Equal(t, 0, cfg.Printify.RateLimit)
	assert.Equal(t, 10, cfg.Printify.RateBurst)
	assert.Empty(t, cfg.Printify.WebhookTopics)
	assert.True(t, cfg.S3.UseSSL)
	assert.Equal(t, time.Hour, cfg.S3.PresignTTL)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("PRINTIFY_SHOP_ID", "123")
	t.Setenv("PRINTIFY_RATE_LIMIT", "600")
	t.Setenv("PRINTIFY_WEBHOOK_TOPICS", " order:created, ,order:updated ")
	t.Setenv("PUBLIC_BASE_URL", "https://hooks.example/")
	t.Setenv("S3_USE_SSL", "false")
	t.Setenv("S3_PRESIGN_TTL", "15m")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "123", cfg.Printify.ShopID)
	assert.Equal(t, 600, cfg.Printify.RateLimit)
	assert.Equal(t, []string{"order:created", "order:updated"}, cfg.Printify.WebhookTopics)
	assert.Equal(t, "https://hooks.example", cfg.PublicBaseURL)
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, 15*time.Minute, cfg.S3.PresignTTL)
}
