package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Airtable AirtableConfig `mapstructure:"airtable"`
	Review   ReviewConfig   `mapstructure:"review"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AirtableConfig holds Airtable API connection details
type AirtableConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseID   string        `mapstructure:"base_id"`
	Table    string        `mapstructure:"table"`
	View     string        `mapstructure:"view"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Typecast bool          `mapstructure:"typecast"`
}

// ReviewConfig controls how the review queue is served
type ReviewConfig struct {
	// NextFilter is an expr expression selecting the next record to review
	NextFilter string   `mapstructure:"next_filter"`
	MaxRecords int      `mapstructure:"max_records"`
	Statuses   []string `mapstructure:"statuses"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
