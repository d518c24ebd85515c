// Package config loads the yaml configuration file. Every field has a
// sensible default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dferrer/studyflow/internal/store"
)

type Config struct {
	DBPath string `yaml:"db_path"`
	UserID string `yaml:"user_id"`

	// RefreshMinutes controls how often the TUI re-reads today's tasks
	// and weekly stats to catch mutations from other flows.
	RefreshMinutes int `yaml:"refresh_minutes"`
}

func Default() (Config, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DBPath:         dbPath,
		UserID:         "local-user",
		RefreshMinutes: 5,
	}, nil
}

// DefaultPath returns ~/.config/studyflow/config.yaml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studyflow", "config.yaml"), nil
}

// Load reads the config at path, filling unset fields with defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if file.DBPath != "" {
		cfg.DBPath = file.DBPath
	}
	if file.UserID != "" {
		cfg.UserID = file.UserID
	}
	if file.RefreshMinutes > 0 {
		cfg.RefreshMinutes = file.RefreshMinutes
	}
	return cfg, nil
}

// RefreshInterval is the polling period as a duration.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}
