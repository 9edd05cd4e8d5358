package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash"
)

// Config represents the complete application configuration
type Config struct {
	Render  RenderConfig
	Server  ServerConfig
	Verbose bool
}

// RenderConfig holds chart source and output settings
type RenderConfig struct {
	DataDir   string
	Catalog   string
	Extension string
	Format    string
	DPI       int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads configuration from environment variables and validates it.
// Callers load any .env file first.
func Load() (*Config, error) {
	config := &Config{
		Render:  *loadRenderConfig(),
		Server:  *loadServerConfig(),
		Verbose: getEnvBoolOrDefault("XLSXDASH_VERBOSE", false),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func loadRenderConfig() *RenderConfig {
	return &RenderConfig{
		DataDir:   getEnvOrDefault("XLSXDASH_DATA_DIR", "."),
		Catalog:   getEnvOrDefault("XLSXDASH_CATALOG", ""),
		Extension: getEnvOrDefault("XLSXDASH_EXT", ".xlsx"),
		Format:    getEnvOrDefault("XLSXDASH_FORMAT", string(xlsxdash.FormatPNG)),
		DPI:       getEnvIntOrDefault("XLSXDASH_DPI", 96),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:         getEnvOrDefault("PORT", "8080"),
		GinMode:      getEnvOrDefault("GIN_MODE", "release"),
		ReadTimeout:  getEnvDurationOrDefault("XLSXDASH_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDurationOrDefault("XLSXDASH_WRITE_TIMEOUT", 60*time.Second),
	}
}

// Validate checks the settings. It is called again after flags override the environment.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.DataDir == "" {
		errs = append(errs, errors.New("data directory is required"))
	}
	if err := c.RenderOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unknown gin mode %q", c.Server.GinMode))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	return errors.Join(errs...)
}

// RenderOptions converts the render settings into library options.
func (c *Config) RenderOptions() xlsxdash.Options {
	return xlsxdash.Options{
		DataDir:   c.Render.DataDir,
		Extension: c.Render.Extension,
		Format:    xlsxdash.Format(c.Render.Format),
		DPI:       c.Render.DPI,
	}
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
