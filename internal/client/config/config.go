package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// Data sources for the read-only /data resources.
const (
	DataSourceHTTP = "http"
	DataSourceS3   = "s3"
)

var (
	ErrUnknownDataSource = errors.New("unknown data source")
	ErrUnknownLogFormat  = errors.New("unknown log format")
	ErrMissingS3Bucket   = errors.New("s3 data source requires a bucket")
	ErrNegativeTimeout   = errors.New("request timeout must not be negative")
)

// Config holds runtime settings for the MediaVault CLI.
type Config struct {
	ServerURL  string
	DataSource string

	S3Bucket       string
	S3Prefix       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	KeyStorePath string
	DownloadDir  string

	// RequestTimeout bounds each HTTP request. Zero means no timeout.
	RequestTimeout time.Duration

	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.DataSource = DataSourceHTTP
	c.S3Region = "us-east-1"
	c.KeyStorePath = "mediavault.db"
	c.DownloadDir = "."
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
}

// Validate checks cross-field constraints the flag parser cannot.
func (c *Config) Validate() error {
	switch c.DataSource {
	case DataSourceHTTP:
	case DataSourceS3:
		if c.S3Bucket == "" {
			return ErrMissingS3Bucket
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDataSource, c.DataSource)
	}

	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON, logging.FormatZap:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.LogFormat)
	}

	if c.RequestTimeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. Invalid input panics.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)

	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
