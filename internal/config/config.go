// ABOUTME: Configuration loading and parsing for mini-crm
// ABOUTME: Supports YAML files with environment variable expansion

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete mini-crm configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds persistence configuration.
type DataConfig struct {
	// Driver selects the snapshot backend: "file" or "sqlite".
	Driver string `yaml:"driver"`
	// Dir is the snapshot directory for the file driver.
	Dir string `yaml:"dir"`
	// SQLitePath is the database path for the sqlite driver.
	SQLitePath string `yaml:"sqlite_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file exists:
// file-backed snapshots under the user data directory, text logs at info.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Driver:     "file",
			Dir:        filepath.Join(defaultDataDir(), "snapshots"),
			SQLitePath: filepath.Join(defaultDataDir(), "crm.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// defaultDataDir returns the mini-crm data directory.
// Priority: XDG_DATA_HOME/mini-crm > ~/.local/share/mini-crm
func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "mini-crm")
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// Fields left empty fall back to their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and
// valid.
func (c *Config) Validate() error {
	switch c.Data.Driver {
	case "file":
		if c.Data.Dir == "" {
			return fmt.Errorf("data.dir is required for the file driver")
		}
	case "sqlite":
		if c.Data.SQLitePath == "" {
			return fmt.Errorf("data.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("data.driver must be \"file\" or \"sqlite\", got %q", c.Data.Driver)
	}
	return nil
}
