package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/slok/tdo/internal/model"
)

// KV is the durable key-value store where the collection and the settings are saved.
type KV interface {
	// Get returns the value of key, or model.ErrNotFound if missing.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing the previous one.
	Set(ctx context.Context, key string, value []byte) error
}

var keyRegexp = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateKey checks a key can be stored by every backend.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is required: %w", model.ErrNotValid)
	}

	if !keyRegexp.MatchString(key) {
		return fmt.Errorf("key %q is invalid (allowed: [a-zA-Z0-9._-]): %w", key, model.ErrNotValid)
	}

	return nil
}
