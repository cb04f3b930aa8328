package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Key
// material in particular is expected to arrive this way, optionally via a
// .env file loaded by the entry point.
func parseEnv(config *Config) {
	config.EndpointAddr = getEnv("ENDPOINT_ADDR", config.EndpointAddr)
	config.DatabaseDSN = getEnv("DATABASE_DSN", config.DatabaseDSN)
	config.EncryptionKey = getEnv("ENCRYPTION_KEY", config.EncryptionKey)
	config.EncryptionKeySalt = getEnv("ENCRYPTION_KEY_SALT", config.EncryptionKeySalt)
	config.AdminSecret = getEnv("ADMIN_SECRET", config.AdminSecret)

	config.AdminTokenValidityDuration = getEnvDuration("ADMIN_TOKEN_VALIDITY_DURATION", config.AdminTokenValidityDuration)
	config.DefaultSecretTTL = getEnvDuration("DEFAULT_SECRET_TTL", config.DefaultSecretTTL)
	config.SweepInterval = getEnvDuration("SWEEP_INTERVAL", config.SweepInterval)

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RateLimitBurst = n
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
