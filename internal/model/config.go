package model

import (
	"fmt"
	"time"
)

// StorageBackend is the key-value store implementation used to persist state.
type StorageBackend string

const (
	StorageBackendSQLite StorageBackend = "sqlite"
	StorageBackendDiskv  StorageBackend = "diskv"
	StorageBackendMemory StorageBackend = "memory"
)

// Config is the user configuration of the task list.
type Config struct {
	Storage StorageBackend
	// StoragePath overrides the backend location inside the data dir.
	StoragePath string
	// ExportDir is where exports are written.
	ExportDir string

	SaveDelay       time.Duration
	RemoveDelay     time.Duration
	NotificationTTL time.Duration
}

// Validate checks the config values, zero values mean defaults.
func (c Config) Validate() error {
	switch c.Storage {
	case "", StorageBackendSQLite, StorageBackendDiskv, StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q: %w", c.Storage, ErrNotValid)
	}

	if c.SaveDelay < 0 {
		return fmt.Errorf("save delay can't be negative: %w", ErrNotValid)
	}
	if c.RemoveDelay < 0 {
		return fmt.Errorf("remove delay can't be negative: %w", ErrNotValid)
	}
	if c.NotificationTTL < 0 {
		return fmt.Errorf("notification TTL can't be negative: %w", ErrNotValid)
	}

	return nil
}
