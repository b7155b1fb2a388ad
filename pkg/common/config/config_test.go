package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "es", cfg.Locale)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, 5, cfg.Verification.MaxAttempts)
	assert.Empty(t, cfg.Catalog.UpstreamURL)
	assert.Equal(t, []string{"q"}, cfg.Middleware.Security.FreeTextParams)
	assert.False(t, cfg.IsProd())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"address": ":9090"},
		"redis": {"enabled": true, "addr": "cache:6379"},
		"catalog": {"upstreamURL": "http://products.internal/api/products"},
		"locale": "en"
	}`), 0o600))
	t.Setenv("APP_CONFIG", path)
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("KAFKA_ENABLED", "yes")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("VERIFY_CODE_TTL", "5m")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("JWT_ALGORITHM", "hs 512")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, ":7070", cfg.Server.Address, "env wins over file")
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "http://products.internal/api/products", cfg.Catalog.UpstreamURL)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, time.Hour, cfg.Session.TTL, "bad duration keeps the default")
	assert.Equal(t, "HS512", cfg.Middleware.JWT.SigningMethod)
	assert.True(t, cfg.IsProd())
}

func TestBrokenFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	t.Setenv("APP_CONFIG", path)

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestDSN(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, "root:root@tcp(localhost:3306)/workbuddy?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())

	cfg.Database.UseUnixSock = true
	cfg.Database.Host = "/var/run/mysqld/mysqld.sock"
	assert.Equal(t, "root:root@unix(/var/run/mysqld/mysqld.sock)/workbuddy?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}

func TestHlogLevel(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, hlog.LevelInfo, cfg.HlogLevel())
	cfg.LogLevel = "DEBUG"
	assert.Equal(t, hlog.LevelDebug, cfg.HlogLevel())
	cfg.LogLevel = "nonsense"
	assert.Equal(t, hlog.LevelInfo, cfg.HlogLevel())
}
