// Package config loads runtime configuration for the session CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the backend, e.g. http://localhost:8080
//	-o string     Origin header sent with every request
//	-t duration   per-request timeout, e.g. 5s (0 or less means 10s)
//	-r uint       session-check retries on transport failure
//	-d string     directory for downloaded images
//	-l string     log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds. Absent keys keep their earlier value:
//
//	{
//	  "server_base_url": "http://localhost:8080",
//	  "origin": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "bootstrap_retries": 2,
//	  "retry_delay": "500ms",
//	  "download_dir": "/tmp/images",
//	  "log_level": "info"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
