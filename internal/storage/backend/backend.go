// Package backend opens the key-value store of a configured storage backend.
package backend

import (
	"context"
	"fmt"

	"github.com/slok/tdo/internal/conventions"
	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/storage"
	"github.com/slok/tdo/internal/storage/diskv"
	"github.com/slok/tdo/internal/storage/memory"
	"github.com/slok/tdo/internal/storage/sqlite"
)

// Config is the configuration to open a store.
type Config struct {
	Backend model.StorageBackend
	// DataDir is where the default store locations live.
	DataDir string
	// Path overrides the default store location of the backend.
	Path   string
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Backend == "" {
		c.Backend = model.StorageBackendSQLite
	}
	if c.DataDir == "" && c.Path == "" && c.Backend != model.StorageBackendMemory {
		return fmt.Errorf("data dir or path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Store is an opened key-value store.
type Store struct {
	storage.KV
	closeFn func() error
}

// Close releases the store resources.
func (s Store) Close() error { return s.closeFn() }

// Open opens the store of the configured backend.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	noop := func() error { return nil }

	switch cfg.Backend {
	case model.StorageBackendMemory:
		kv, err := memory.NewKV(memory.KVConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, err
		}
		return &Store{KV: kv, closeFn: noop}, nil

	case model.StorageBackendDiskv:
		path := cfg.Path
		if path == "" {
			path = conventions.StorePath(cfg.DataDir)
		}
		kv, err := diskv.NewKV(diskv.KVConfig{BasePath: path, Logger: cfg.Logger})
		if err != nil {
			return nil, err
		}
		return &Store{KV: kv, closeFn: noop}, nil

	case model.StorageBackendSQLite:
		path := cfg.Path
		if path == "" {
			path = conventions.DBPath(cfg.DataDir)
		}
		kv, err := sqlite.NewKV(ctx, sqlite.KVConfig{DBPath: path, Logger: cfg.Logger})
		if err != nil {
			return nil, err
		}
		return &Store{KV: kv, closeFn: kv.Close}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q: %w", cfg.Backend, model.ErrNotValid)
}
