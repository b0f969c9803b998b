// Package config provides unified configuration for dfdrift tooling:
// which registry backend and alert sink to use, loaded from a YAML or JSON
// file and overridable from DFDRIFT_* environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Hi-king/dfdrift/pkg/alert"
	"github.com/Hi-king/dfdrift/pkg/storage"
)

// Config selects the storage backend and alert sink.
type Config struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Alert   AlertConfig   `json:"alert" yaml:"alert"`
}

// StorageConfig holds registry backend configuration.
type StorageConfig struct {
	// Type is the backend type: local, s3, sqlite
	Type string `json:"type" yaml:"type"`

	// Path is the registry directory for the local backend
	Path string `json:"path" yaml:"path"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`

	// SQLite configuration (for sqlite type)
	SQLite SQLiteConfig `json:"sqlite" yaml:"sqlite"`
}

// S3Config holds S3 backend configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Prefix is the key prefix for the registry object
	Prefix string `json:"prefix" yaml:"prefix"`

	// UsePathStyle enables path-style addressing (required for MinIO)
	UsePathStyle bool `json:"use_path_style" yaml:"use_path_style"`

	// Compress stores the registry snappy-compressed
	Compress bool `json:"compress" yaml:"compress"`
}

// SQLiteConfig holds SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the database file path
	Path string `json:"path" yaml:"path"`
}

// AlertConfig holds alert sink configuration.
type AlertConfig struct {
	// Type is the sink type: stderr, slack
	Type string `json:"type" yaml:"type"`

	// Slack configuration (for slack type)
	Slack SlackConfig `json:"slack" yaml:"slack"`
}

// SlackConfig holds Slack sink configuration.
type SlackConfig struct {
	// WebhookURL is the incoming-webhook URL
	WebhookURL string `json:"webhook_url" yaml:"webhook_url"`

	// RatePerMinute caps delivered alerts per minute
	RatePerMinute int `json:"rate_per_minute" yaml:"rate_per_minute"`
}

// DefaultConfig returns the default configuration: local file storage under
// .dfdrift_schemas, warnings to stderr.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Type: "local",
			Path: storage.DefaultStoragePath,
		},
		Alert: AlertConfig{
			Type: "stderr",
		},
	}
}

// Resolve fills derived defaults.
func (c *Config) Resolve() {
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type == "local" && c.Storage.Path == "" {
		c.Storage.Path = storage.DefaultStoragePath
	}
	if c.Storage.Type == "sqlite" && c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = filepath.Join(storage.DefaultStoragePath, "schemas.db")
	}
	if c.Alert.Type == "" {
		c.Alert.Type = "stderr"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "local", "s3", "sqlite":
	default:
		return fmt.Errorf("invalid storage type: %s (must be local, s3, or sqlite)", c.Storage.Type)
	}

	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" && os.Getenv("DFDRIFT_S3_BUCKET") == "" {
		return fmt.Errorf("s3.bucket is required when storage type is s3")
	}

	switch c.Alert.Type {
	case "stderr", "slack":
	default:
		return fmt.Errorf("invalid alert type: %s (must be stderr or slack)", c.Alert.Type)
	}

	if c.Alert.Type == "slack" && c.Alert.Slack.WebhookURL == "" && os.Getenv("DFDRIFT_SLACK_WEBHOOK_URL") == "" {
		return fmt.Errorf("slack.webhook_url is required when alert type is slack")
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv overrides configuration from environment variables.
// Environment variables use the DFDRIFT_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("DFDRIFT_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("DFDRIFT_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DFDRIFT_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("DFDRIFT_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("DFDRIFT_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("DFDRIFT_S3_PREFIX"); v != "" {
		cfg.Storage.S3.Prefix = v
	}
	if v := os.Getenv("DFDRIFT_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := os.Getenv("DFDRIFT_ALERT_TYPE"); v != "" {
		cfg.Alert.Type = v
	}
	if v := os.Getenv("DFDRIFT_SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alert.Slack.WebhookURL = v
	}
	if v := os.Getenv("DFDRIFT_SLACK_RATE_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Alert.Slack.RatePerMinute = n
		}
	}
}

// BuildStorage constructs the configured registry backend.
func (c *Config) BuildStorage(ctx context.Context) (storage.SchemaStorage, error) {
	switch c.Storage.Type {
	case "local":
		return storage.NewLocalFileStorage(c.Storage.Path), nil
	case "s3":
		return storage.NewS3Storage(ctx, c.Storage.S3.Bucket, storage.S3Config{
			Region:       c.Storage.S3.Region,
			Endpoint:     c.Storage.S3.Endpoint,
			Prefix:       c.Storage.S3.Prefix,
			UsePathStyle: c.Storage.S3.UsePathStyle,
			Compress:     c.Storage.S3.Compress,
		})
	case "sqlite":
		return storage.NewSQLiteStorage(c.Storage.SQLite.Path)
	default:
		return nil, fmt.Errorf("invalid storage type: %s", c.Storage.Type)
	}
}

// BuildAlerter constructs the configured alert sink.
func (c *Config) BuildAlerter() (alert.Alerter, error) {
	switch c.Alert.Type {
	case "stderr":
		return alert.NewStderrAlerter(), nil
	case "slack":
		return alert.NewSlackAlerter(alert.SlackConfig{
			WebhookURL:    c.Alert.Slack.WebhookURL,
			RatePerMinute: c.Alert.Slack.RatePerMinute,
		})
	default:
		return nil, fmt.Errorf("invalid alert type: %s", c.Alert.Type)
	}
}
