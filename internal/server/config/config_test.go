package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T) {
	t.Helper()
	origArgs := os.Args
	os.Args = []string{"testbin"}
	t.Cleanup(func() { os.Args = origArgs })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.DefaultSecretTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, time.Hour, cfg.AdminTokenValidityDuration)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.NotEmpty(t, cfg.EncryptionKey)
	assert.Greater(t, cfg.RateLimitRPS, 0.0)
	assert.Greater(t, cfg.RateLimitBurst, 0)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	resetArgs(t)
	os.Args = []string{"testbin", "-a", ":9090", "-d", "postgres://x", "-k", "key-material", "-l", "48", "-w", "30"}

	cfg := LoadConfig()

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, "key-material", cfg.EncryptionKey)
	assert.Equal(t, 48*time.Hour, cfg.DefaultSecretTTL)
	assert.Equal(t, 30*time.Minute, cfg.SweepInterval)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("ENDPOINT_ADDR", ":7070")
	t.Setenv("ENCRYPTION_KEY", "from-env")
	t.Setenv("DEFAULT_SECRET_TTL", "72h")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")

	cfg := LoadConfig()

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "from-env", cfg.EncryptionKey)
	assert.Equal(t, 72*time.Hour, cfg.DefaultSecretTTL)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.RateLimitBurst)
}

func TestLoadConfig_FlagsWinOverEnv(t *testing.T) {
	resetArgs(t)
	t.Setenv("ENDPOINT_ADDR", ":7070")
	os.Args = []string{"testbin", "-a", ":6060"}

	cfg := LoadConfig()

	assert.Equal(t, ":6060", cfg.EndpointAddr)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	resetArgs(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"endpoint_addr": ":5050",
		"database_dsn": "postgres://json",
		"encryption_key": "json-key",
		"encryption_key_salt": "json-salt",
		"admin_secret": "json-admin",
		"admin_token_validity_duration": "30m",
		"default_secret_ttl": "24h",
		"sweep_interval": "5m",
		"rate_limit_rps": 1,
		"rate_limit_burst": 2
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"testbin", "-c", path}

	cfg := LoadConfig()

	assert.Equal(t, ":5050", cfg.EndpointAddr)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "json-key", cfg.EncryptionKey)
	assert.Equal(t, "json-salt", cfg.EncryptionKeySalt)
	assert.Equal(t, "json-admin", cfg.AdminSecret)
	assert.Equal(t, 30*time.Minute, cfg.AdminTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, cfg.DefaultSecretTTL)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 1.0, cfg.RateLimitRPS)
	assert.Equal(t, 2, cfg.RateLimitBurst)
}

func TestLoadConfig_BadJsonPanics(t *testing.T) {
	resetArgs(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	os.Args = []string{"testbin", "-c", path}

	assert.Panics(t, func() { LoadConfig() })
}
