package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
	"github.com/dmitrijs2005/gophsession/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept "12h" strings or integer nanoseconds; pointer fields tell an absent
// key apart from a zero value.
type JsonConfig struct {
	Addr            string          `json:"addr"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"secret_key"`
	SessionValidity *timex.Duration `json:"session_validity"`
	AllowedOrigins  []string        `json:"allowed_origins"`
	ImagesDir       string          `json:"images_dir"`
	SecureCookie    *bool           `json:"secure_cookie"`
	LogLevel        string          `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config. Without such a flag nothing is loaded. Panics if the file cannot
// be read or contains invalid JSON.
func parseJson(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionValidity != nil {
		config.SessionValidity = c.SessionValidity.Duration
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.ImagesDir != "" {
		config.ImagesDir = c.ImagesDir
	}
	if c.SecureCookie != nil {
		config.SecureCookie = *c.SecureCookie
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
