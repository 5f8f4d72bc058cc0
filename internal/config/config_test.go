package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MAASAI_FLW_PUBLIC_KEY", "FLWPUBK_TEST-abc")
	t.Setenv("MAASAI_FLW_SECRET_KEY", "FLWSECK_TEST-xyz")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "https://api.flutterwave.com", cfg.Flutterwave.BaseURL)
	assert.Equal(t, "MC", cfg.Flutterwave.TxRefPrefix)
	assert.Equal(t, uint32(5), cfg.Flutterwave.BreakerMinRequests)
	assert.Empty(t, cfg.DB.DSN)
	assert.False(t, cfg.App.IsProd())
}

func TestLoad_MissingKeys(t *testing.T) {
	t.Setenv("MAASAI_FLW_PUBLIC_KEY", "")
	t.Setenv("MAASAI_FLW_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RedisStoreNeedsURL(t *testing.T) {
	setRequired(t)
	t.Setenv("MAASAI_SESSION_STORE", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAASAI_REDIS_URL")

	t.Setenv("MAASAI_REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
}

func TestLoad_UnknownStore(t *testing.T) {
	setRequired(t)
	t.Setenv("MAASAI_SESSION_STORE", "memcached")

	_, err := Load()
	assert.Error(t, err)
}
