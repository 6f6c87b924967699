package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The request
// timeout is given in whole seconds.
type JsonConfig struct {
	ServerURL      string `json:"server_url"`
	DataSource     string `json:"data_source"`
	S3Bucket       string `json:"s3_bucket"`
	S3Prefix       string `json:"s3_prefix"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	KeyStorePath   string `json:"key_store_path"`
	DownloadDir    string `json:"download_dir"`
	RequestTimeout int    `json:"request_timeout"`
	LogLevel       string `json:"log_level"`
	LogFormat      string `json:"log_format"`
	MetricsAddr    string `json:"metrics_addr"`
}

func toJson(c *Config) JsonConfig {
	return JsonConfig{
		ServerURL:      c.ServerURL,
		DataSource:     c.DataSource,
		S3Bucket:       c.S3Bucket,
		S3Prefix:       c.S3Prefix,
		S3Region:       c.S3Region,
		S3BaseEndpoint: c.S3BaseEndpoint,
		S3AccessKey:    c.S3AccessKey,
		S3SecretKey:    c.S3SecretKey,
		KeyStorePath:   c.KeyStorePath,
		DownloadDir:    c.DownloadDir,
		RequestTimeout: int(c.RequestTimeout / time.Second),
		LogLevel:       c.LogLevel,
		LogFormat:      c.LogFormat,
		MetricsAddr:    c.MetricsAddr,
	}
}

func (jc JsonConfig) apply(c *Config) {
	c.ServerURL = jc.ServerURL
	c.DataSource = jc.DataSource
	c.S3Bucket = jc.S3Bucket
	c.S3Prefix = jc.S3Prefix
	c.S3Region = jc.S3Region
	c.S3BaseEndpoint = jc.S3BaseEndpoint
	c.S3AccessKey = jc.S3AccessKey
	c.S3SecretKey = jc.S3SecretKey
	c.KeyStorePath = jc.KeyStorePath
	c.DownloadDir = jc.DownloadDir
	c.RequestTimeout = time.Duration(jc.RequestTimeout) * time.Second
	c.LogLevel = jc.LogLevel
	c.LogFormat = jc.LogFormat
	c.MetricsAddr = jc.MetricsAddr
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The path comes from flagx.ConfigPath (-c, -config or $MEDIAVAULT_CONFIG).
// The DTO is seeded from cfg, so keys absent from the file keep their
// current value. Read or unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := toJson(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}
