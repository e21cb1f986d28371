// Package config provides YAML-based configuration loading for ArchitectFlow.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level ArchitectFlow configuration, loaded from
// architectflow.yaml with environment overrides applied on top.
type Config struct {
	Port      int             `yaml:"port"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// DatabaseConfig selects the storage backend. With backend "auto" (the
// default) a non-empty URL selects the hosted MySQL backend and otherwise
// the embedded SQLite file at Path is used; "hosted" and "embedded" force
// the choice.
type DatabaseConfig struct {
	Backend string `yaml:"backend"`
	URL     string `yaml:"url"`
	Path    string `yaml:"path"`
}

// AuthConfig holds identity-resolution settings.
//
// TestUserID, when set, overrides any bearer credential — test and local
// development only. DefaultUserID is the fallback when a request carries no
// usable identity at all.
type AuthConfig struct {
	TestUserID    string `yaml:"test_user_id"`
	DefaultUserID string `yaml:"default_user_id"`
}

// RateLimitConfig tunes the advisory per-client API rate limiter.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// Hosted reports whether the hosted relational backend is selected.
func (c *Config) Hosted() bool {
	switch c.Database.Backend {
	case "hosted":
		return true
	case "embedded":
		return false
	default:
		return c.Database.URL != ""
	}
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file is not an error — the defaults plus environment overrides
// are enough to run against the embedded backend.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv layers environment variables over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("AF_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("AF_TEST_USER_ID"); v != "" {
		c.Auth.TestUserID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "architectflow.db"
	}
	if c.Auth.DefaultUserID == "" {
		c.Auth.DefaultUserID = "demo-user"
	}
	if c.RateLimit.PerMinute == 0 {
		c.RateLimit.PerMinute = 120
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 30
	}
}

// validate checks that all fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("port %d out of range", c.Port))
	}
	switch c.Database.Backend {
	case "", "auto", "embedded", "hosted":
	default:
		errs = append(errs, fmt.Sprintf("database.backend %q is not one of auto, embedded, hosted", c.Database.Backend))
	}
	if c.RateLimit.PerMinute < 0 {
		errs = append(errs, "rate_limit.per_minute must not be negative")
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, "rate_limit.burst must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
