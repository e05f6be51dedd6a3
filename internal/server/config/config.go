// Package config handles configuration for the reference backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the backend.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - DatabaseDSN: SQLite DSN of the user store.
//   - SecretKey: HMAC secret for session tokens. Empty means a random key per process.
//   - SessionValidity: lifetime of the session token and its cookie.
//   - AllowedOrigins: Origin header values accepted on every request.
//   - ImagesDir: directory the random image is picked from.
//   - SecureCookie: marks the session cookie Secure; turn on behind TLS.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr            string
	DatabaseDSN     string
	SecretKey       string
	SessionValidity time.Duration
	AllowedOrigins  []string
	ImagesDir       string
	SecureCookie    bool
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecureCookie is off, which only suits plain-HTTP local setups.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = "file:gophsession.db"
	c.SecretKey = ""
	c.SessionValidity = 12 * time.Hour
	c.AllowedOrigins = []string{"http://localhost:3000"}
	c.ImagesDir = "./server_images"
	c.SecureCookie = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
