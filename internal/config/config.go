// Package config loads registry-wide settings: the game installation
// root, the legacy default-repository URL rewrite target, and logging
// verbosity. Settings come from a JSON file with an MODREG_-prefixed
// environment overlay, read through spf13/viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the settings a registry needs at startup.
type Config struct {
	// GameRoot is the absolute path installed-file paths are stored
	// relative to.
	GameRoot string `mapstructure:"game_root"`
	// LegacyRepositoryURL is loaded and saved with the other settings.
	// The registry package does not read it: its legacy and current
	// default-repository URLs are built-in constants.
	LegacyRepositoryURL string `mapstructure:"legacy_repository_url"`
	// LogLevel is passed straight to hclog.LevelFromString.
	LogLevel string `mapstructure:"log_level"`
}

// defaultConfigDir returns the directory config.json and the persisted
// registry blob live in.
func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "modreg"), nil
}

// Load reads configuration from <configDir>/config.json, if present,
// overlaid with MODREG_-prefixed environment variables, and returns
// defaults if no file exists yet.
func Load() (*Config, error) {
	dir, err := defaultConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("MODREG")
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can overlay it even when
	// no config file exists.
	v.SetDefault("game_root", "")
	v.SetDefault("legacy_repository_url", "")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to <configDir>/config.json, creating the directory if
// needed.
func (c *Config) Save() error {
	dir, err := defaultConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("game_root", c.GameRoot)
	v.Set("legacy_repository_url", c.LegacyRepositoryURL)
	v.Set("log_level", c.LogLevel)

	path := filepath.Join(dir, "config.json")
	return v.WriteConfigAs(path)
}
