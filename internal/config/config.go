// Package config loads forge configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `envconfig:"HTTP_PORT" default:"8000"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`

	// Storage
	ProjectsRoot string `envconfig:"PROJECTS_ROOT" default:"projects"`
	DBPath       string `envconfig:"DB_PATH" default:"forge.db"`

	// Generative model adapter
	AnthropicAPIKey string  `envconfig:"ANTHROPIC_API_KEY"`
	GenModel        string  `envconfig:"GEN_MODEL"`
	GenMaxTokens    int64   `envconfig:"GEN_MAX_TOKENS" default:"8192"`
	GenTemperature  float64 `envconfig:"GEN_TEMPERATURE" default:"0.2"`

	// Scaffold defaults applied to omitted request fields.
	DefaultFrontend   string `envconfig:"DEFAULT_FRONTEND" default:"react"`
	DefaultBackend    string `envconfig:"DEFAULT_BACKEND" default:"fastapi"`
	DefaultDatabase   string `envconfig:"DEFAULT_DATABASE" default:"postgresql"`
	DefaultDeployment string `envconfig:"DEFAULT_DEPLOYMENT" default:"docker"`

	// Optional override for the embedded framework catalog.
	CatalogPath string `envconfig:"CATALOG_PATH"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that would only fail at first use otherwise.
func (c *Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	if c.GenTemperature < 0 || c.GenTemperature > 1 {
		return fmt.Errorf("GEN_TEMPERATURE must be in [0,1], got %v", c.GenTemperature)
	}
	if c.ProjectsRoot == "" {
		return fmt.Errorf("PROJECTS_ROOT must not be empty")
	}
	return nil
}

// IsProduction reports whether the service runs in a production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
