package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkarpov/reelmark/internal/flagx"
	"github.com/dkarpov/reelmark/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "24h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	RedisAddr             string         `json:"redis_addr"`
	LoginMaxAttempts      int            `json:"login_max_attempts"`
	LoginAttemptWindow    timex.Duration `json:"login_attempt_window"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags;
// if neither is set, no JSON file is loaded. An unreadable or invalid file
// panics: a server started with a broken config must not come up half-wired.
func parseJson(config *Config) {

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

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.RedisAddr = c.RedisAddr
	config.LoginMaxAttempts = c.LoginMaxAttempts
	config.LoginAttemptWindow = time.Duration(c.LoginAttemptWindow.Duration)
}
