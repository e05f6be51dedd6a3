package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o", "-t", "-r", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend")
	fs.StringVar(&cfg.Origin, "o", cfg.Origin, "origin header value")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.Uint64Var(&cfg.BootstrapRetries, "r", cfg.BootstrapRetries, "session check retries")
	fs.StringVar(&cfg.DownloadDir, "d", cfg.DownloadDir, "download directory for images")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
