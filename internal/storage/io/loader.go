package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/tdo/internal/model"
)

// ConfigYAMLRepository loads the task list configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads a configuration from a YAML file and returns a validated domain model.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.Config, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.Config{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Config{}, ctx.Err()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.Config{}, fmt.Errorf("parsing YAML: %w", err)
	}

	m, err := cfg.toModel()
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := m.Validate(); err != nil {
		return model.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return m, nil
}

// Config represents the YAML structure of the configuration.
type Config struct {
	Storage   StorageConfig `yaml:"storage"`
	ExportDir string        `yaml:"export_dir"`
	Timings   TimingsConfig `yaml:"timings"`
}

// StorageConfig represents the YAML structure for storage configuration.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// TimingsConfig represents the YAML structure for the delays, as Go durations (e.g. `250ms`).
type TimingsConfig struct {
	SaveDelay       string `yaml:"save_delay"`
	RemoveDelay     string `yaml:"remove_delay"`
	NotificationTTL string `yaml:"notification_ttl"`
}

func (c Config) toModel() (model.Config, error) {
	cfg := model.Config{
		Storage:     model.StorageBackend(c.Storage.Backend),
		StoragePath: c.Storage.Path,
		ExportDir:   c.ExportDir,
	}

	var err error
	if cfg.SaveDelay, err = parseDuration(c.Timings.SaveDelay); err != nil {
		return model.Config{}, fmt.Errorf("timings.save_delay: %w", err)
	}
	if cfg.RemoveDelay, err = parseDuration(c.Timings.RemoveDelay); err != nil {
		return model.Config{}, fmt.Errorf("timings.remove_delay: %w", err)
	}
	if cfg.NotificationTTL, err = parseDuration(c.Timings.NotificationTTL); err != nil {
		return model.Config{}, fmt.Errorf("timings.notification_ttl: %w", err)
	}

	return cfg, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
