package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Source   SourceConfig   `mapstructure:"source"   yaml:"source"`
	Ledger   LedgerConfig   `mapstructure:"ledger"   yaml:"ledger"`
	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
}

// DownloadConfig controls where images are written and how the ledger is consulted.
type DownloadConfig struct {
	Dir         string `mapstructure:"dir"          yaml:"dir"`
	Override    bool   `mapstructure:"override"     yaml:"override"`
	CleanupDays int    `mapstructure:"cleanup_days" yaml:"cleanup_days"`
	Timeout     string `mapstructure:"timeout"      yaml:"timeout"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	if c.Download.Dir == "" {
		return fmt.Errorf("download.dir must not be empty")
	}
	if c.Download.CleanupDays < 0 {
		return fmt.Errorf("download.cleanup_days must not be negative, got %d", c.Download.CleanupDays)
	}
	if c.Source.API.Index < 0 {
		return fmt.Errorf("source.api.index must not be negative, got %d", c.Source.API.Index)
	}
	if c.Ledger.SQLite.Path == "" {
		return fmt.Errorf("ledger.sqlite.path must not be empty")
	}
	for key, value := range map[string]string{
		"download.timeout": c.Download.Timeout,
		"source.timeout":   c.Source.Timeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}
	}

	return nil
}

// Duration parses value and falls back to def on error.
func Duration(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
