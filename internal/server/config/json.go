package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/hushdrop/hushdrop/internal/flagx"
	"github.com/hushdrop/hushdrop/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr               string         `json:"endpoint_addr"`
	DatabaseDSN                string         `json:"database_dsn"`
	EncryptionKey              string         `json:"encryption_key"`
	EncryptionKeySalt          string         `json:"encryption_key_salt"`
	AdminSecret                string         `json:"admin_secret"`
	AdminTokenValidityDuration timex.Duration `json:"admin_token_validity_duration"`
	DefaultSecretTTL           timex.Duration `json:"default_secret_ttl"`
	SweepInterval              timex.Duration `json:"sweep_interval"`
	RateLimitRPS               float64        `json:"rate_limit_rps"`
	RateLimitBurst             int            `json:"rate_limit_burst"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.EncryptionKey = c.EncryptionKey
	config.EncryptionKeySalt = c.EncryptionKeySalt
	config.AdminSecret = c.AdminSecret
	config.AdminTokenValidityDuration = time.Duration(c.AdminTokenValidityDuration.Duration)
	config.DefaultSecretTTL = time.Duration(c.DefaultSecretTTL.Duration)
	config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	config.RateLimitRPS = c.RateLimitRPS
	config.RateLimitBurst = c.RateLimitBurst
}
