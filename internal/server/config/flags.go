package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     listen address (e.g., ":8080")
//	-d string     SQLite DSN
//	-k string     session token secret key
//	-v duration   session validity (e.g., "12h")
//	-o string     comma-separated allowed origins
//	-i string     images directory
//	-l string     log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-v", "-o", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionValidity, "v", config.SessionValidity, "session validity")
	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed origins, comma separated")
	fs.StringVar(&config.ImagesDir, "i", config.ImagesDir, "images directory")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AllowedOrigins = splitOrigins(*origins)
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
