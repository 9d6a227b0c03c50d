// Package config loads PageQuery settings: defaults, then an optional
// YAML file, then PAGEQUERY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/pagequery/core/fetch"
)

// EnvPrefix is the prefix of every environment override,
// e.g. PAGEQUERY_FETCH_TIMEOUT=2s.
const EnvPrefix = "PAGEQUERY"

const (
	localConfigFile = ".pagequery.yaml"
	xdgConfigFile   = "pagequery/config.yaml"
)

// ErrConfigNotFound is returned when an explicitly named file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// Config holds all application configuration.
type Config struct {
	Fetch  FetchConfig  `yaml:"fetch"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// FetchConfig configures the HTTP client used for URL sources.
type FetchConfig struct {
	UserAgent         string        `yaml:"user_agent" split_words:"true"`
	Timeout           time.Duration `yaml:"timeout"`
	IgnoreHTTPErrors  bool          `yaml:"ignore_http_errors" split_words:"true"`
	IgnoreContentType bool          `yaml:"ignore_content_type" split_words:"true"`
	MaxBodySize       int64         `yaml:"max_body_size" split_words:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			UserAgent:   fetch.DefaultUserAgent,
			Timeout:     fetch.DefaultTimeout,
			MaxBodySize: fetch.DefaultMaxBodySize,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Load resolves the config file (see FindConfigFile), applies it over the
// defaults, then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := FindConfigFile(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml %s: %w", file, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile returns the config file to read. An explicit path must
// exist. Otherwise ./.pagequery.yaml and then
// $XDG_CONFIG_HOME/pagequery/config.yaml are tried; finding neither
// returns "" and no error.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
			}
			return "", fmt.Errorf("checking config %s: %w", explicit, err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile, nil
	}
	if path, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return path, nil
	}
	return "", nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Fetch.Timeout <= 0:
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	case c.Fetch.MaxBodySize < 0:
		return fmt.Errorf("fetch.max_body_size must not be negative, got %d", c.Fetch.MaxBodySize)
	case c.Fetch.UserAgent == "":
		return errors.New("fetch.user_agent must not be empty")
	case c.Server.Addr == "":
		return errors.New("server.addr must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel returns the configured level, or info when it does not parse.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// FetchOptions converts the fetch section for fetch.New.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		UserAgent:         c.Fetch.UserAgent,
		Timeout:           c.Fetch.Timeout,
		IgnoreHTTPErrors:  c.Fetch.IgnoreHTTPErrors,
		IgnoreContentType: c.Fetch.IgnoreContentType,
		MaxBodySize:       c.Fetch.MaxBodySize,
	}
}
