// Command server runs the watchdex HTTP server.
package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rmansoor/watchdex/internal/config"
	"github.com/rmansoor/watchdex/internal/server"
)

const defaultConfigPath = "watchdex.toml"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Session.Secret == "" {
		logger.Error("SESSION_SECRET is not set; generate one with `openssl rand -hex 32`")
		os.Exit(1)
	}
	if cfg.TMDB.APIKey == "" {
		logger.Warn("TMDB_API_KEY is not set; movie and TV lookups will return empty results")
	}

	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(server.Config{
		Port:          cfg.Server.Port,
		DBPath:        cfg.Database.Path,
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
		TMDBAPIKey:    cfg.TMDB.APIKey,
		TMDBLanguage:  cfg.TMDB.Language,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the TOML config file when present, falls back to
// defaults otherwise, and applies environment overrides on top. The file
// path can be changed with CONFIG_FILE.
func loadConfig() (*config.Config, error) {
	path := defaultConfigPath
	if v := os.Getenv("CONFIG_FILE"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		// A missing default config file is fine; an unreadable or broken
		// one is not.
		if os.Getenv("CONFIG_FILE") == "" && errors.Is(err, fs.ErrNotExist) {
			cfg = config.Default()
		} else {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
