package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/projection"
)

func TestLoadConfig(t *testing.T) {
	tests := map[string]struct {
		config string
		root   func(dataDir string) *RootCommand
		expCfg model.Config
		expErr bool
	}{
		"Missing default config should use defaults.": {
			root: func(dataDir string) *RootCommand { return &RootCommand{DataDir: dataDir} },
			expCfg: model.Config{
				Storage:   model.StorageBackendSQLite,
				ExportDir: ".",
			},
		},
		"Missing explicit config should fail.": {
			root: func(dataDir string) *RootCommand {
				return &RootCommand{DataDir: dataDir, ConfigPath: filepath.Join(dataDir, "nope.yaml")}
			},
			expErr: true,
		},
		"Default config should be loaded from the data dir.": {
			config: "storage:\n  backend: diskv\ntimings:\n  save_delay: 1s\n",
			root:   func(dataDir string) *RootCommand { return &RootCommand{DataDir: dataDir} },
			expCfg: model.Config{
				Storage:   model.StorageBackendDiskv,
				ExportDir: ".",
				SaveDelay: time.Second,
			},
		},
		"Storage flag should override the config.": {
			config: "storage:\n  backend: diskv\nexport_dir: /tmp\n",
			root: func(dataDir string) *RootCommand {
				return &RootCommand{DataDir: dataDir, Storage: string(model.StorageBackendMemory)}
			},
			expCfg: model.Config{
				Storage:   model.StorageBackendMemory,
				ExportDir: "/tmp",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			if test.config != "" {
				err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(test.config), 0o644)
				require.NoError(t, err)
			}

			cfg, err := loadConfig(context.TODO(), test.root(dataDir))
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expCfg, cfg)
		})
	}
}

func TestWithServicePersistsAcrossRuns(t *testing.T) {
	for _, backend := range []model.StorageBackend{model.StorageBackendSQLite, model.StorageBackendDiskv} {
		t.Run(string(backend), func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			root := &RootCommand{DataDir: t.TempDir(), Storage: string(backend), Yes: true, Logger: log.Noop}

			err := withService(ctx, root, serviceOptions{}, func(svc *todo.Service) error {
				_, err := svc.Add(ctx, "Essay", model.CategoryKuliah)
				return err
			})
			require.NoError(err)

			err = withService(ctx, root, serviceOptions{}, func(svc *todo.Service) error {
				assert.Equal(t, 1, svc.Stats().Total)
				task, err := svc.Find(svc.View(projection.Query{}).Tasks[0].ID)
				require.NoError(err)
				_, err = svc.Delete(ctx, task.ID)
				return err
			})
			require.NoError(err)

			// Pending removals are committed on close.
			err = withService(ctx, root, serviceOptions{}, func(svc *todo.Service) error {
				assert.Equal(t, 0, svc.Stats().Total)
				return nil
			})
			require.NoError(err)
		})
	}
}
