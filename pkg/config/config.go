package config

import "time"

// S3Config holds the object-storage connection settings. Every field can be
// overridden through the S3_* environment variables, matching the variables
// the deployment already exports.
type S3Config struct {
	Endpoint       string `json:"endpoint,omitempty" env:"S3_ENDPOINT"`
	Bucket         string `json:"bucket,omitempty" env:"S3_BUCKET"`
	AccessKey      string `json:"access_key,omitempty" env:"S3_ACCESS_KEY"`
	SecretKey      string `json:"secret_key,omitempty" env:"S3_SECRET_KEY"`
	Prefix         string `json:"prefix,omitempty" env:"S3_PREFIX"`
	URLExpiry      int    `json:"url_expiry,omitempty" env:"S3_URL_EXPIRY"`
	Region         string `json:"region,omitempty" env:"S3_REGION"`
	ForcePathStyle bool   `json:"force_path_style,omitempty" env:"S3_FORCE_PATH_STYLE"`
}

// SourceConfig selects an alternate image source backend (local mount,
// backblaze, ssh). When omitted the S3 settings above are used.
type SourceConfig struct {
	Type    string                 `json:"type"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// DatabaseConfig holds the optional Postgres manifest source settings.
type DatabaseConfig struct {
	DSN   string `json:"dsn,omitempty" env:"MANIFEST_DB_DSN"`
	Query string `json:"query,omitempty"`
}

// Settings is the root configuration structure
type Settings struct {
	S3          S3Config       `json:"s3,omitempty"`
	Source      *SourceConfig  `json:"source,omitempty"`
	Database    DatabaseConfig `json:"database,omitempty"`
	Column      string         `json:"column,omitempty"`      // CSV column holding relative keys
	Concurrency int            `json:"concurrency,omitempty"` // parallel downloads (default: 4)
	TempDir     string         `json:"temp_dir,omitempty"`    // scratch dir base (default: s3_temp)
	LogLevel    string         `json:"log_level,omitempty"`   // debug, info, warn, error (default: info)
	LogFormat   string         `json:"log_format,omitempty"`  // console, json (default: console)
}

// DefaultOutputFolder is the output folder used when none is given.
const DefaultOutputFolder = "utm_trs_images"

// GetColumn returns the manifest column name (defaults to attachmentlocation)
func (s *Settings) GetColumn() string {
	if s.Column != "" {
		return s.Column
	}
	return "attachmentlocation"
}

// GetConcurrency returns the max parallel downloads (defaults to 4)
func (s *Settings) GetConcurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return 4
}

// GetTempDir returns the scratch directory base (defaults to s3_temp)
func (s *Settings) GetTempDir() string {
	if s.TempDir != "" {
		return s.TempDir
	}
	return "s3_temp"
}

// GetLogLevel returns the log level (defaults to info)
func (s *Settings) GetLogLevel() string {
	if s.LogLevel != "" {
		return s.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to console)
func (s *Settings) GetLogFormat() string {
	if s.LogFormat != "" {
		return s.LogFormat
	}
	return "console"
}

// GetURLExpiry returns the presigned URL lifetime (defaults to 1h)
func (c *S3Config) GetURLExpiry() time.Duration {
	if c.URLExpiry > 0 {
		return time.Duration(c.URLExpiry) * time.Second
	}
	return time.Hour
}

// SourceType returns the effective source backend type. An explicit source
// block wins; otherwise S3 when an endpoint is configured, local otherwise
// (a mounted attachments directory).
func (s *Settings) SourceType() string {
	if s.Source != nil && s.Source.Type != "" {
		return s.Source.Type
	}
	if s.S3.Endpoint != "" {
		return "s3"
	}
	return "local"
}

// SourceOptions returns the backend-specific options map for the effective
// source type.
func (s *Settings) SourceOptions() map[string]interface{} {
	if s.Source != nil && s.Source.Type != "" {
		return s.Source.Options
	}
	return map[string]interface{}{
		"endpoint":         s.S3.Endpoint,
		"region":           s.S3.Region,
		"bucket":           s.S3.Bucket,
		"prefix":           s.S3.Prefix,
		"access_key":       s.S3.AccessKey,
		"secret_key":       s.S3.SecretKey,
		"force_path_style": s.S3.ForcePathStyle,
	}
}
