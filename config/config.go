// Package config loads vitae settings from an optional JSON file with
// environment variable overrides.
package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Environment variables that override the file.
const (
	EnvDatabaseURL = "VITAE_DATABASE_URL"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvOutputDir   = "VITAE_OUTPUT_DIR"
	EnvAddr        = "VITAE_ADDR"
	EnvLogLevel    = "VITAE_LOG_LEVEL"
)

// Config represents the application configuration.
type Config struct {
	DatabaseURL  string       `json:"database_url,omitempty"`
	GeminiAPIKey string       `json:"gemini_api_key,omitempty"`
	GeminiModel  string       `json:"gemini_model,omitempty"`
	Addr         string       `json:"addr,omitempty"`
	LogLevel     string       `json:"log_level,omitempty"`
	Export       ExportConfig `json:"export"`
}

// ExportConfig controls PDF output.
type ExportConfig struct {
	OutputDir        string `json:"output_dir"`
	Concurrency      int    `json:"concurrency"`
	SanitizeFileName bool   `json:"sanitize_file_name"`
	FileName         string `json:"file_name,omitempty"`
	Strict           bool   `json:"strict"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		GeminiModel: "gemini-1.5-flash",
		Addr:        ":3000",
		LogLevel:    "info",
		Export: ExportConfig{
			OutputDir:   "output",
			Concurrency: 4,
		},
	}
}

// Load reads configuration from file with environment variable overrides.
// An empty path or a missing file yields the defaults.
func Load(configPath string) (cfg Config, err error) {
	cfg = Default()

	if configPath != "" {
		var data []byte
		data, err = os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			slog.Debug("config file not found, using defaults", "path", configPath)
			err = nil
		case err != nil:
			err = errors.Wrapf(err, "failed to read config file: %s", configPath)
			return cfg, err
		default:
			if err = json.Unmarshal(data, &cfg); err != nil {
				err = errors.Wrapf(err, "failed to parse config file: %s", configPath)
				return cfg, err
			}
		}
	}

	cfg.applyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvGeminiKey); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Export.OutputDir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() (err error) {
	if c.Export.Concurrency < 0 {
		err = errors.Errorf("export.concurrency must not be negative, got %d", c.Export.Concurrency)
		return err
	}
	if c.Export.Concurrency == 0 {
		c.Export.Concurrency = Default().Export.Concurrency
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = Default().Export.OutputDir
	}
	if c.GeminiModel == "" {
		c.GeminiModel = Default().GeminiModel
	}
	if _, err = c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// RequireDatabase reports a helpful error when no database is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.Errorf("database_url is required (set in config or %s env var)", EnvDatabaseURL)
	}
	return nil
}

// RequireGemini reports a helpful error when no Gemini key is configured.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return errors.Errorf("gemini_api_key is required (set in config or %s env var)", EnvGeminiKey)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	if n, err := strconv.Atoi(c.LogLevel); err == nil {
		return slog.Level(n), nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", c.LogLevel)
}
