package diskv

import (
	"context"
	"fmt"

	"github.com/peterbourgon/diskv/v3"

	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/storage"
)

const defaultCacheSizeMax = 1024 * 1024 // 1MB.

// KVConfig is the configuration for the diskv KV.
type KVConfig struct {
	// BasePath is the directory where every key is stored as a file.
	BasePath     string
	CacheSizeMax uint64
	Logger       log.Logger
}

func (c *KVConfig) defaults() error {
	if c.BasePath == "" {
		return fmt.Errorf("base path is required")
	}
	if c.CacheSizeMax == 0 {
		c.CacheSizeMax = defaultCacheSizeMax
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Diskv"})
	return nil
}

// KV is a file per key implementation of storage.KV.
type KV struct {
	d      *diskv.Diskv
	logger log.Logger
}

// NewKV creates a new diskv KV.
func NewKV(cfg KVConfig) (*KV, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	d := diskv.New(diskv.Options{
		BasePath:     cfg.BasePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: cfg.CacheSizeMax,
	})

	cfg.Logger.Debugf("Diskv KV initialized at %s", cfg.BasePath)

	return &KV{d: d, logger: cfg.Logger}, nil
}

// Get retrieves a value by key.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}

	if !k.d.Has(key) {
		return nil, fmt.Errorf("key %s: %w", key, model.ErrNotFound)
	}

	v, err := k.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("could not read key: %w", err)
	}

	return v, nil
}

// Set stores a value.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	if err := k.d.Write(key, value); err != nil {
		return fmt.Errorf("could not write key: %w", err)
	}

	k.logger.Debugf("Stored %d bytes on key %s", len(value), key)
	return nil
}
