// Package config loads the frontend configuration from a YAML file, an
// optional .env file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvBackendURL     = "PROFORMAS_BACKEND_URL"
	EnvBackendTimeout = "PROFORMAS_BACKEND_TIMEOUT"
	EnvPageTTL        = "PROFORMAS_PAGE_TTL"
)

// Config represents the application configuration
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Pages   PagesConfig   `yaml:"pages"`

	// ConfigPath is the path to the config file (not serialized)
	ConfigPath string `yaml:"-"`
}

// BackendConfig describes the REST backend.
type BackendConfig struct {
	URL string `yaml:"url"`
	// Timeout bounds each backend request; 0 disables it.
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// PagesConfig controls the page controller registry.
type PagesConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepSchedule string        `yaml:"sweep_schedule"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:5000",
			Timeout: 15 * time.Second,
		},
		Pages: PagesConfig{
			TTL:           2 * time.Hour,
			SweepSchedule: "*/10 * * * *",
		},
	}
}

// searchPaths are tried in order when no explicit path is given.
var searchPaths = []string{
	"proformas.yaml",
	"configs/proformas.yaml",
	"/etc/proformas/proformas.yaml",
}

// Load reads the configuration from path, or from the first existing file
// of the search paths when path is empty. Without any file the defaults are
// used. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		cfg.ConfigPath = path
	} else {
		for _, p := range searchPaths {
			data, err = os.ReadFile(p)
			if err == nil {
				cfg.ConfigPath = p
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", p, err)
			}
		}
	}

	if cfg.ConfigPath != "" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfg.ConfigPath, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadDotEnv loads a .env file into the process environment when present.
// Variables already set win over the file.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(EnvBackendTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBackendTimeout, err)
		}
		c.Backend.Timeout = d
	}
	if v := os.Getenv(EnvPageTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageTTL, err)
		}
		c.Pages.TTL = d
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend url %q: must be an absolute http(s) URL", c.Backend.URL)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout must not be negative, got %s", c.Backend.Timeout)
	}
	if c.Pages.TTL <= 0 {
		return fmt.Errorf("page ttl must be positive, got %s", c.Pages.TTL)
	}
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
