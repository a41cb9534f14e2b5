package config

import "time"

// Config holds runtime settings for the Reelmark CLI.
type Config struct {
	ServerBaseURL string
	StorePath     string
	SessionTTL    time.Duration
	ExpiryWarning time.Duration
	SyncInterval  time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StorePath = "reelmark-session.db"
	c.SessionTTL = 24 * time.Hour
	c.ExpiryWarning = 30 * time.Minute
	c.SyncInterval = time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
