package config

import "time"

// Config holds runtime settings for the session CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the backend.
//   - Origin: value sent in the Origin header; must be on the server's allow-list.
//   - RequestTimeout: per-request timeout.
//   - BootstrapRetries: extra session-check attempts after a transport failure.
//   - RetryDelay: pause between those attempts.
//   - DownloadDir: where fetched images are written.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL    string
	Origin           string
	RequestTimeout   time.Duration
	BootstrapRetries uint64
	RetryDelay       time.Duration
	DownloadDir      string
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.Origin = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.BootstrapRetries = 2
	c.RetryDelay = 500 * time.Millisecond
	c.DownloadDir = "."
	c.LogLevel = "warn"
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
