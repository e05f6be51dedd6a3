package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
	"github.com/dmitrijs2005/gophsession/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell an absent key apart from a zero value.
type JsonConfig struct {
	ServerBaseURL    string          `json:"server_base_url"`
	Origin           string          `json:"origin"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	BootstrapRetries *uint64         `json:"bootstrap_retries"`
	RetryDelay       *timex.Duration `json:"retry_delay"`
	DownloadDir      string          `json:"download_dir"`
	LogLevel         string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag it does nothing. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.Origin != "" {
		cfg.Origin = jc.Origin
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.BootstrapRetries != nil {
		cfg.BootstrapRetries = *jc.BootstrapRetries
	}
	if jc.RetryDelay != nil {
		cfg.RetryDelay = jc.RetryDelay.Duration
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
