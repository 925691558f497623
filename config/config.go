package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. REVIEWQUEUE_SERVER_ADDR
const EnvPrefix = "REVIEWQUEUE"

// Load loads the configuration from file and environment. A missing config
// file is not an error: the service can run from environment variables alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reviewqueue"))
		}
		v.AddConfigPath("/etc/reviewqueue/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Airtable defaults
	v.SetDefault("airtable.table", "YSWS Project Submission")
	v.SetDefault("airtable.view", "Grid View")
	v.SetDefault("airtable.base_url", "https://api.airtable.com/v0")
	v.SetDefault("airtable.timeout", "30s")
	v.SetDefault("airtable.typecast", true)

	// Review defaults
	v.SetDefault("review.next_filter", `Status != "1-Pending Submission"`)
	v.SetDefault("review.max_records", 0)
	v.SetDefault("review.statuses", []string{"2-Approved", "2-Rejected", "2-Needs Changes"})

	// Server defaults
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// bindEnv maps environment variables onto config keys
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain names used by existing deployments
	_ = v.BindEnv("airtable.api_key", EnvPrefix+"_AIRTABLE_API_KEY", "AIRTABLE_API_KEY")
	_ = v.BindEnv("airtable.base_id", EnvPrefix+"_AIRTABLE_BASE_ID", "AIRTABLE_BASE_ID")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Airtable.APIKey == "" || cfg.Airtable.APIKey == "your-api-key-here" {
		return fmt.Errorf("airtable.api_key must be set (or AIRTABLE_API_KEY)")
	}
	if cfg.Airtable.BaseID == "" {
		return fmt.Errorf("airtable.base_id must be set (or AIRTABLE_BASE_ID)")
	}
	if strings.TrimSpace(cfg.Airtable.Table) == "" {
		return fmt.Errorf("airtable.table is required")
	}
	if cfg.Airtable.Timeout <= 0 {
		return fmt.Errorf("airtable.timeout must be positive: %s", cfg.Airtable.Timeout)
	}

	if cfg.Review.MaxRecords < 0 {
		return fmt.Errorf("review.max_records must not be negative: %d", cfg.Review.MaxRecords)
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive: %s", cfg.Server.ShutdownTimeout)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
