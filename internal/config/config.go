// Package config loads application configuration from a TOML file with
// environment variable overrides for deployment settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the application configuration tree.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Session  SessionConfig  `toml:"session"`
	TMDB     TMDBConfig     `toml:"tmdb"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SessionConfig contains session token settings. Secret must be a long
// random string; TTLHours bounds how long a login stays valid.
type SessionConfig struct {
	Secret   string `toml:"secret"`
	TTLHours int    `toml:"ttl_hours"`
}

// TMDBConfig contains the TMDB API credential and result language.
type TMDBConfig struct {
	APIKey   string `toml:"api_key"`
	Language string `toml:"language"`
}

// Default returns a Config with sensible defaults. Secrets default to empty
// and must come from the config file or the environment.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "data/watchdex.db"},
		Session:  SessionConfig{TTLHours: 24},
		TMDB:     TMDBConfig{Language: "en-US"},
	}
}

// Load reads and parses a TOML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values from the environment. Env vars win so the
// same config file can be shared across deployments.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		c.TMDB.APIKey = v
	}
	return nil
}
