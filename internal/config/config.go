// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrorPolicy selects how the client reacts to a failed server call
type ErrorPolicy string

const (
	// PropagateErrors notifies the user and returns the error to the caller
	PropagateErrors ErrorPolicy = "propagate"
	// SwallowErrors notifies the user, logs the error and carries on
	SwallowErrors ErrorPolicy = "swallow"
)

// Server holds the backend configuration
type Server struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	JokeAPIBaseURL  string        `env:"JOKE_API_BASE_URL"`
	JokeAPITimeout  time.Duration `env:"JOKE_API_TIMEOUT" envDefault:"10s"`
	DefaultJokesNum int           `env:"DEFAULT_JOKES_NUMBER" envDefault:"10"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Client holds the command-line client configuration
type Client struct {
	APIBaseURL       string      `env:"VITE_API_BASE_URL"`
	TotalJokesNumber int         `env:"VITE_TOTAL_JOKES_NUMBER" envDefault:"10"`
	ErrorPolicy      ErrorPolicy `env:"JOKES_ERROR_POLICY" envDefault:"propagate"`
	StateDir         string      `env:"JOKES_STATE_DIR"`
	LogLevel         string      `env:"LOG_LEVEL" envDefault:"warn"`
}

// LoadDotEnv loads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadServer reads the backend configuration from the environment
func LoadServer() (*Server, error) {
	cfg := &Server{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the backend can reach the joke API
func (c *Server) Validate() error {
	if c.JokeAPIBaseURL == "" {
		return errors.New("JOKE_API_BASE_URL is required")
	}
	if c.DefaultJokesNum < 0 {
		return fmt.Errorf("DEFAULT_JOKES_NUMBER must not be negative, got %d", c.DefaultJokesNum)
	}
	return nil
}

// LoadClient reads the client configuration from the environment
func LoadClient() (*Client, error) {
	cfg := &Client{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".jokeshelf")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the client settings
func (c *Client) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("VITE_API_BASE_URL is required")
	}
	switch c.ErrorPolicy {
	case PropagateErrors, SwallowErrors:
	default:
		return fmt.Errorf("JOKES_ERROR_POLICY must be %q or %q, got %q", PropagateErrors, SwallowErrors, c.ErrorPolicy)
	}
	if c.TotalJokesNumber <= 0 {
		c.TotalJokesNumber = 10
	}
	return nil
}
