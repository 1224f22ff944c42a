package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tdo/internal/conventions"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/storage/backend"
)

func TestOpen(t *testing.T) {
	tests := map[string]struct {
		config  func(dir string) backend.Config
		expFile func(dir string) string
		expErr  error
	}{
		"SQLite should use the data dir database by default": {
			config: func(dir string) backend.Config {
				return backend.Config{Backend: model.StorageBackendSQLite, DataDir: dir}
			},
			expFile: func(dir string) string { return conventions.DBPath(dir) },
		},
		"SQLite should use the custom path": {
			config: func(dir string) backend.Config {
				return backend.Config{Backend: model.StorageBackendSQLite, DataDir: dir, Path: filepath.Join(dir, "custom", "x.db")}
			},
			expFile: func(dir string) string { return filepath.Join(dir, "custom", "x.db") },
		},
		"An empty backend should default to SQLite": {
			config:  func(dir string) backend.Config { return backend.Config{DataDir: dir} },
			expFile: func(dir string) string { return conventions.DBPath(dir) },
		},
		"Diskv should use the data dir store by default": {
			config: func(dir string) backend.Config {
				return backend.Config{Backend: model.StorageBackendDiskv, DataDir: dir}
			},
			expFile: func(dir string) string { return filepath.Join(conventions.StorePath(dir), "tasks") },
		},
		"Diskv should use the custom path": {
			config: func(dir string) backend.Config {
				return backend.Config{Backend: model.StorageBackendDiskv, Path: filepath.Join(dir, "kv")}
			},
			expFile: func(dir string) string { return filepath.Join(dir, "kv", "tasks") },
		},
		"Memory should not need a data dir": {
			config: func(dir string) backend.Config { return backend.Config{Backend: model.StorageBackendMemory} },
		},
		"Unknown backends should fail": {
			config: func(dir string) backend.Config { return backend.Config{Backend: "etcd", DataDir: dir} },
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()
			dir := t.TempDir()

			store, err := backend.Open(ctx, test.config(dir))
			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				return
			}
			require.NoError(err)

			require.NoError(store.Set(ctx, "tasks", []byte(`[]`)))
			got, err := store.Get(ctx, "tasks")
			require.NoError(err)
			assert.Equal([]byte(`[]`), got)
			require.NoError(store.Close())

			if test.expFile != nil {
				assert.FileExists(test.expFile(dir))
			}
		})
	}
}

func TestOpenMissingLocation(t *testing.T) {
	_, err := backend.Open(context.Background(), backend.Config{Backend: model.StorageBackendSQLite})
	assert.Error(t, err)
}
