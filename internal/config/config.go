// Package config handles dfac project configuration.
//
// Settings come from a dfac.toml in the working directory (or an
// explicit --config path), with environment variable fallbacks for the
// console connection so credentials can stay out of version control.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the project config file dfac looks for when no
// explicit path is given.
const DefaultPath = "dfac.toml"

// DefaultBaseURL matches a local Dify console deployment.
const DefaultBaseURL = "http://localhost:5001"

// Environment fallbacks for the console connection.
const (
	EnvBaseURL  = "DIFY_BASE_URL"
	EnvEmail    = "DIFY_CONSOLE_EMAIL"
	EnvPassword = "DIFY_CONSOLE_PASSWORD"
)

// ErrMissingCredentials is returned before any network or file activity
// when the console login credentials are not configured.
var ErrMissingCredentials = errors.New(
	"console credentials are required: set email and password in dfac.toml, or " +
		EnvEmail + " and " + EnvPassword + " in the environment")

// Config holds connection settings for the Dify console plus the local
// layout of decomposed flows.
type Config struct {
	// BaseURL is the console's base URL, e.g. "https://dify.example.com".
	BaseURL string `toml:"base_url"`

	// Email and Password authenticate against the console login API.
	Email    string `toml:"email"`
	Password string `toml:"password"`

	// FlowsDir is where decomposed flows live, one subdirectory per app.
	FlowsDir string `toml:"flows_dir"`

	// AppsFile is the registry file path. Defaults to apps.yaml inside
	// FlowsDir.
	AppsFile string `toml:"apps_file"`
}

// Load reads the config from DefaultPath. A missing file is not an
// error; the environment and defaults still apply.
func Load() (*Config, error) {
	if _, err := os.Stat(DefaultPath); os.IsNotExist(err) {
		cfg := &Config{}
		cfg.applyFallbacks()
		return cfg, nil
	}
	return LoadFrom(DefaultPath)
}

// LoadFrom reads the config from an explicit path. Unlike Load, a
// missing file here is an error: the user asked for it by name.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyFallbacks()
	return &cfg, nil
}

// applyFallbacks fills unset fields from the environment, then from
// built-in defaults.
func (c *Config) applyFallbacks() {
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Email == "" {
		c.Email = os.Getenv(EnvEmail)
	}
	if c.Password == "" {
		c.Password = os.Getenv(EnvPassword)
	}
	if c.FlowsDir == "" {
		c.FlowsDir = "flows"
	}
	if c.AppsFile == "" {
		c.AppsFile = filepath.Join(c.FlowsDir, "apps.yaml")
	}
}

// RequireCredentials verifies the console login settings are present.
// Commands that talk to the console call this before doing anything
// else.
func (c *Config) RequireCredentials() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}
