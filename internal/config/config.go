// Package config loads bridge configuration from an optional YAML file,
// environment variables, and built-in defaults, in increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "yokatlas-bridge.yaml"

// Config represents the complete bridge configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider" json:"provider"`
	Search   SearchConfig   `yaml:"search" json:"search"`
	Logs     LogsConfig     `yaml:"logs" json:"logs"`
}

// ProviderConfig locates the provider installation.
type ProviderConfig struct {
	// DataDir is the provider install root probed for generation layouts.
	// Env override: YOKATLAS_DATA_DIR.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// BaseURL is the atlas endpoint base for detail fetches.
	// Env override: YOKATLAS_BASE_URL.
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// SearchConfig bounds search result sets.
type SearchConfig struct {
	// DefaultMaxResults is used when the caller supplies no max_results.
	DefaultMaxResults int `yaml:"default_max_results" json:"default_max_results"`

	// SiralamaCap bounds max_results when target-ranking filtering is
	// requested, keeping the ranking-centered sampling working set small.
	SiralamaCap int `yaml:"siralama_cap" json:"siralama_cap"`
}

// LogsConfig configures the side-channel log sink.
type LogsConfig struct {
	// Dir is the logs directory. Env override: YOKATLAS_LOG_DIR.
	Dir string `yaml:"dir" json:"dir"`

	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level"`
}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Provider: ProviderConfig{
			DataDir: filepath.Join(cwd, "yokatlas_data"),
			BaseURL: "https://yokatlas.yok.gov.tr",
		},
		Search: SearchConfig{
			DefaultMaxResults: 100,
			SiralamaCap:       200,
		},
		Logs: LogsConfig{
			Dir:   filepath.Join(cwd, "logs"),
			Level: "debug",
		},
	}
}

// Load reads configuration from dir/yokatlas-bridge.yaml if present, then
// applies environment overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	path := filepath.Join(dir, DefaultFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("YOKATLAS_DATA_DIR"); v != "" {
		c.Provider.DataDir = v
	}
	if v := os.Getenv("YOKATLAS_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("YOKATLAS_LOG_DIR"); v != "" {
		c.Logs.Dir = v
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := NewConfig()
	if c.Provider.DataDir == "" {
		c.Provider.DataDir = def.Provider.DataDir
	}
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = def.Provider.BaseURL
	}
	if c.Search.DefaultMaxResults == 0 {
		c.Search.DefaultMaxResults = def.Search.DefaultMaxResults
	}
	if c.Search.SiralamaCap == 0 {
		c.Search.SiralamaCap = def.Search.SiralamaCap
	}
	if c.Logs.Dir == "" {
		c.Logs.Dir = def.Logs.Dir
	}
	if c.Logs.Level == "" {
		c.Logs.Level = def.Logs.Level
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Search.DefaultMaxResults < 1 {
		return fmt.Errorf("search.default_max_results must be positive, got %d", c.Search.DefaultMaxResults)
	}
	if c.Search.SiralamaCap < 1 {
		return fmt.Errorf("search.siralama_cap must be positive, got %d", c.Search.SiralamaCap)
	}
	return nil
}
