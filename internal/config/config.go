// Package config loads the settings of the fieldcheck CLI from the
// environment. Command-line flags override what is loaded here.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrInvalidConfig wraps validation failures of a loaded Config.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the CLI and server settings.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Server   Server `envPrefix:"SERVER_"`
}

// Server configures `fieldcheck serve`.
type Server struct {
	Address      string `env:"ADDRESS" envDefault:":8080"`
	MaxBodyBytes int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	Metrics      bool   `env:"METRICS" envDefault:"true"`
}

// Load parses FIELDCHECK_* environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "FIELDCHECK_"}); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("%w: empty server address", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max body bytes must be positive, got %d", ErrInvalidConfig, c.Server.MaxBodyBytes)
	}
	return nil
}
