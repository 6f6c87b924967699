package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/flagx"
)

var knownFlags = []string{"-a", "-s", "-d", "-o", "-t", "-l", "-f", "-m"}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in knownFlags are looked at so -c and friends do not trip the
// parser. A malformed value panics.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("mediavault", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "vault server base URL")
	fs.StringVar(&cfg.DataSource, "s", cfg.DataSource, "data source for /data resources (http|s3)")
	fs.StringVar(&cfg.KeyStorePath, "d", cfg.KeyStorePath, "path of the local key store")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory for downloaded assets")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text|json|zap)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
