package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/storage"
)

// KVConfig is the configuration for the memory KV.
type KVConfig struct {
	Logger log.Logger
}

func (c *KVConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// KV is an in-memory implementation of storage.KV.
type KV struct {
	values map[string][]byte
	mu     sync.RWMutex
	logger log.Logger
}

// NewKV creates a new memory KV.
func NewKV(cfg KVConfig) (*KV, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &KV{
		values: make(map[string][]byte),
		logger: cfg.Logger,
	}, nil
}

// Get retrieves a value by key.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	v, ok := k.values[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, model.ErrNotFound)
	}

	// Return a copy.
	return append([]byte(nil), v...), nil
}

// Set stores a value.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.values[key] = append([]byte(nil), value...)
	k.logger.Debugf("Stored %d bytes on key %s", len(value), key)

	return nil
}
