// Package config loads runtime configuration for the MediaVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config, or $MEDIAVAULT_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   vault server base URL
//	-s string   data source for /data resources: http or s3
//	-d string   path of the local SQLite key store
//	-o string   directory for downloaded assets
//	-t int      request timeout in seconds (0 disables it)
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text, json or zap
//	-m string   listen address for Prometheus metrics (empty disables it)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "data_source": "s3",
//	  "s3_bucket": "vault",
//	  "s3_prefix": "data/",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123",
//	  "key_store_path": "mediavault.db",
//	  "download_dir": ".",
//	  "request_timeout": 30,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "metrics_addr": ""
//	}
//
// Keys missing from the file keep their previous value.
package config
