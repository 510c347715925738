// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
data:
  driver: "sqlite"
  sqlite_path: "./crm.db"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Data.Driver)
	}
	if cfg.Data.SQLitePath != "./crm.db" {
		t.Errorf("sqlite_path = %q, want ./crm.db", cfg.Data.SQLitePath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("CRM_DATA_DIR", "/var/lib/mini-crm")

	path := writeConfig(t, `
data:
  driver: "file"
  dir: "${CRM_DATA_DIR}/snapshots"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Dir != "/var/lib/mini-crm/snapshots" {
		t.Errorf("dir = %q, want expanded env var", cfg.Data.Dir)
	}
}

func TestLoad_DefaultsFillMissingFields(t *testing.T) {
	path := writeConfig(t, `
data:
  driver: "file"
  dir: "./snapshots"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q, want default info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("format = %q, want default text", cfg.Logging.Format)
	}
}

func TestLoad_UnknownDriverRejected(t *testing.T) {
	path := writeConfig(t, `
data:
  driver: "redis"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "data.driver") {
		t.Errorf("error %q should mention data.driver", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
