// Package config loads tracker configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the tracker.
type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	Database    string `mapstructure:"database"`
	LogFile     string `mapstructure:"log_file"`
	LogLevel    string `mapstructure:"log_level"`
	Theme       string `mapstructure:"theme"`
	CCIListPath string `mapstructure:"cci_list_path"`
}

// DatabasePath resolves the database file under the data directory unless
// an absolute path was configured.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}

// LogPath resolves the log file the same way.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, c.LogFile)
}

// Load reads poam-tracker.yaml (working directory, ~/.config/poam-tracker,
// or /etc/poam-tracker) plus POAM_-prefixed environment variables. A
// missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	config := &Config{
		DataDir:  defaultDataDir(),
		Database: "poam-tracker.db",
		LogFile:  "poam-tracker.log",
		LogLevel: "info",
		Theme:    "dark",
	}

	v := viper.New()
	v.SetConfigName("poam-tracker")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "poam-tracker"))
	}
	v.AddConfigPath("/etc/poam-tracker")

	v.SetEnvPrefix("POAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return config, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".poam-tracker"
	}
	return filepath.Join(home, ".poam-tracker")
}
