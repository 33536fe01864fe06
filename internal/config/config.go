package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	env "github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures what preen needs to reach a Roost server.
type Config struct {
	ServerURL   string `toml:"server_url" env:"PREEN_SERVER"`
	Token       string `toml:"token" env:"PREEN_TOKEN"`
	PollSeconds int    `toml:"poll_seconds" env:"PREEN_POLL_SECONDS"`
}

const (
	defaultConfigPath  = "~/.config/preen/config.toml"
	defaultPollSeconds = 30
)

// Load locates and parses the preen config, applies environment
// overrides, and falls back to defaults when the file is missing. A file
// that exists but does not parse is an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{PollSeconds: defaultPollSeconds}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer file.Close()

		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment overrides win over the file.
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.PollSeconds <= 0 {
		cfg.PollSeconds = defaultPollSeconds
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
