package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Hi-king/dfdrift/pkg/storage"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Storage.Type != "local" || cfg.Storage.Path != storage.DefaultStoragePath {
		t.Errorf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Alert.Type != "stderr" {
		t.Errorf("unexpected alert default: %s", cfg.Alert.Type)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dfdrift.yaml")
	doc := `
storage:
  type: sqlite
  sqlite:
    path: /tmp/df.db
alert:
  type: slack
  slack:
    webhook_url: https://hooks.slack.com/services/T/B/X
    rate_per_minute: 5
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Storage.Type != "sqlite" || cfg.Storage.SQLite.Path != "/tmp/df.db" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Alert.Type != "slack" || cfg.Alert.Slack.RatePerMinute != 5 {
		t.Errorf("unexpected alert config: %+v", cfg.Alert)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dfdrift.json")
	doc := `{"storage": {"type": "local", "path": "/tmp/schemas"}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Storage.Path != "/tmp/schemas" {
		t.Errorf("unexpected path: %s", cfg.Storage.Path)
	}
	// Unset sections keep defaults
	if cfg.Alert.Type != "stderr" {
		t.Errorf("unexpected alert type: %s", cfg.Alert.Type)
	}
}

func TestLoadFromFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dfdrift.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DFDRIFT_STORAGE_TYPE", "sqlite")
	t.Setenv("DFDRIFT_SQLITE_PATH", "/tmp/env.db")
	t.Setenv("DFDRIFT_ALERT_TYPE", "slack")
	t.Setenv("DFDRIFT_SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/Y")
	t.Setenv("DFDRIFT_SLACK_RATE_PER_MINUTE", "3")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.Storage.Type != "sqlite" || cfg.Storage.SQLite.Path != "/tmp/env.db" {
		t.Errorf("env overrides not applied: %+v", cfg.Storage)
	}
	if cfg.Alert.Type != "slack" || cfg.Alert.Slack.RatePerMinute != 3 {
		t.Errorf("env overrides not applied: %+v", cfg.Alert)
	}
}

func TestValidate_Rejections(t *testing.T) {
	t.Setenv("DFDRIFT_S3_BUCKET", "")
	t.Setenv("DFDRIFT_SLACK_WEBHOOK_URL", "")

	cfg := DefaultConfig()
	cfg.Storage.Type = "gcs"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown storage type should be rejected")
	}

	cfg = DefaultConfig()
	cfg.Storage.Type = "s3"
	if err := cfg.Validate(); err == nil {
		t.Error("s3 without bucket should be rejected")
	}

	cfg = DefaultConfig()
	cfg.Alert.Type = "slack"
	if err := cfg.Validate(); err == nil {
		t.Error("slack without webhook should be rejected")
	}
}

func TestBuildStorage_LocalAndSQLite(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Storage.Path = dir
	store, err := cfg.BuildStorage(context.Background())
	if err != nil {
		t.Fatalf("build local failed: %v", err)
	}
	if _, ok := store.(*storage.LocalFileStorage); !ok {
		t.Errorf("expected LocalFileStorage, got %T", store)
	}

	cfg = DefaultConfig()
	cfg.Storage.Type = "sqlite"
	cfg.Storage.SQLite.Path = filepath.Join(dir, "df.db")
	store, err = cfg.BuildStorage(context.Background())
	if err != nil {
		t.Fatalf("build sqlite failed: %v", err)
	}
	sqlite, ok := store.(*storage.SQLiteStorage)
	if !ok {
		t.Fatalf("expected SQLiteStorage, got %T", store)
	}
	sqlite.Close()
}
