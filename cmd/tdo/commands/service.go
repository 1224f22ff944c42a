package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/conventions"
	"github.com/slok/tdo/internal/fileio"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/prompt"
	"github.com/slok/tdo/internal/softdelete"
	"github.com/slok/tdo/internal/storage/backend"
	storageio "github.com/slok/tdo/internal/storage/io"
)

// serviceOptions customize the service built for a command.
type serviceOptions struct {
	confirmer softdelete.Confirmer
	exporter  todo.Exporter
}

// loadConfig returns the configuration file values with the flag overrides applied.
// A missing default configuration file is not an error.
func loadConfig(ctx context.Context, root *RootCommand) (model.Config, error) {
	path := root.ConfigPath
	explicit := path != ""
	if !explicit {
		path = conventions.ConfigPath(root.DataDir)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid config path: %w", err)
	}

	repo := storageio.NewConfigYAMLRepository(os.DirFS(filepath.Dir(abs)))
	cfg, err := repo.GetConfig(ctx, filepath.Base(abs))
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = model.Config{}
	default:
		return model.Config{}, fmt.Errorf("could not load config: %w", err)
	}

	if root.Storage != "" {
		cfg.Storage = model.StorageBackend(root.Storage)
	}
	if cfg.Storage == "" {
		cfg.Storage = model.StorageBackendSQLite
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	return cfg, nil
}

// newService builds the task list service, the returned closer commits pending
// removals, saves and releases the store.
func newService(ctx context.Context, root *RootCommand, opts serviceOptions) (*todo.Service, func(context.Context) error, error) {
	cfg, err := loadConfig(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	store, err := backend.Open(ctx, backend.Config{
		Backend: cfg.Storage,
		DataDir: root.DataDir,
		Path:    cfg.StoragePath,
		Logger:  root.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create store: %w", err)
	}

	confirmer := opts.confirmer
	if confirmer == nil {
		confirmer = newConfirmer(root, root.Stdin)
	}

	exporter := opts.exporter
	if exporter == nil {
		exporter = fileio.DirExporter{Dir: cfg.ExportDir}
	}

	svc, err := todo.NewService(ctx, todo.ServiceConfig{
		Store:           store,
		Confirmer:       confirmer,
		Exporter:        exporter,
		SaveDelay:       cfg.SaveDelay,
		RemoveDelay:     cfg.RemoveDelay,
		NotificationTTL: cfg.NotificationTTL,
		Logger:          root.Logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("could not create service: %w", err)
	}

	closer := func(ctx context.Context) error {
		svcErr := svc.Close(ctx)
		storeErr := store.Close()
		return errors.Join(svcErr, storeErr)
	}

	return svc, closer, nil
}

func newConfirmer(root *RootCommand, in io.Reader) softdelete.Confirmer {
	if root.Yes {
		return prompt.Static(true)
	}
	return prompt.NewTerminal(in, root.Stderr)
}

// withService runs f with a service and closes it afterwards, closing is not
// cancelled with ctx so pending changes are always saved.
func withService(ctx context.Context, root *RootCommand, opts serviceOptions, f func(svc *todo.Service) error) error {
	svc, closeSvc, err := newService(ctx, root, opts)
	if err != nil {
		return err
	}

	err = f(svc)
	if cerr := closeSvc(context.WithoutCancel(ctx)); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}
