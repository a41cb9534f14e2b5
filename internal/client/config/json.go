package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkarpov/reelmark/internal/flagx"
	"github.com/dkarpov/reelmark/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30m"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	StorePath     string         `json:"store_path"`
	SessionTTL    timex.Duration `json:"session_ttl"`
	ExpiryWarning timex.Duration `json:"expiry_warning"`
	SyncInterval  timex.Duration `json:"sync_interval"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; if no path
// is given nothing is loaded. Read or unmarshal errors panic, the caller may
// recover if desired.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerBaseURL = jc.ServerBaseURL
	cfg.StorePath = jc.StorePath
	cfg.SessionTTL = time.Duration(jc.SessionTTL.Duration)
	cfg.ExpiryWarning = time.Duration(jc.ExpiryWarning.Duration)
	cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
}
