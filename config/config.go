// Package config provides configuration loading for the outline service.
// Settings are resolved once at startup (defaults, then an optional YAML
// file, then environment variables) and passed by injection; there is no
// global configuration state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the process-wide settings. Immutable after Load.
type Config struct {
	// Host is the listen address.
	Host string `yaml:"host"`
	// Port is the listen port.
	Port int `yaml:"port"`
	// CacheDir is the directory holding cached page bodies.
	CacheDir string `yaml:"cache_dir"`
	// FetchTimeout is the maximum time for one upstream request.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// UserAgent is sent on every upstream request.
	UserAgent string `yaml:"user_agent"`
	// MaxContentSize caps upstream response bodies in bytes.
	MaxContentSize int64 `yaml:"max_content_size"`
	// AllowedURLPatterns are doublestar globs matched against host/path;
	// fetches outside the list are refused.
	AllowedURLPatterns []string `yaml:"allowed_url_patterns"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               8000,
		CacheDir:           "./cache",
		FetchTimeout:       60 * time.Second,
		UserAgent:          "WikipediaOutlineBot/1.0 (Educational Project)",
		MaxContentSize:     10 * 1024 * 1024,
		AllowedURLPatterns: []string{"en.wikipedia.org/**"},
		LogLevel:           "info",
	}
}

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty; missing files are an error), then
// environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables. The names match
// the service's deployment convention: API_HOST, API_PORT, CACHE_DIR,
// REQUEST_TIMEOUT (seconds), USER_AGENT.
func (c *Config) applyEnv() error {
	if v := os.Getenv("API_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid API_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.FetchTimeout = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in [1,65535], got %d", c.Port)
	}
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required")
	}
	if c.MaxContentSize <= 0 {
		return fmt.Errorf("max_content_size must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
