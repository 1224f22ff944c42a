package lib_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tdo/pkg/lib"
)

func newClient(t *testing.T, cfg lib.Config) *lib.Client {
	t.Helper()

	if cfg.DataDir == "" {
		cfg.DataDir = t.TempDir()
	}
	if cfg.Storage == "" {
		cfg.Storage = lib.StorageMemory
	}

	client, err := lib.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		cfg    lib.Config
		expErr bool
	}{
		"Memory storage should work": {
			cfg: lib.Config{Storage: lib.StorageMemory},
		},
		"SQLite storage should work": {
			cfg: lib.Config{Storage: lib.StorageSQLite},
		},
		"Diskv storage should work": {
			cfg: lib.Config{Storage: lib.StorageDiskv},
		},
		"Unknown storage should fail": {
			cfg:    lib.Config{Storage: "redis"},
			expErr: true,
		},
		"Negative delays should fail": {
			cfg:    lib.Config{Storage: lib.StorageMemory, RemoveDelay: -time.Second},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.cfg.DataDir = t.TempDir()
			client, err := lib.New(context.Background(), test.cfg)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, client.Close())
		})
	}
}

func TestClientTasks(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()
	client := newClient(t, lib.Config{})

	a, err := client.AddTask(ctx, "  Write   report ", lib.CategoryKerja)
	require.NoError(err)
	assert.Equal("Write report", a.Text)

	_, err = client.AddTask(ctx, "write report", lib.CategoryKerja)
	assert.ErrorIs(err, lib.ErrDuplicate)
	_, err = client.AddTask(ctx, " ", lib.CategoryKerja)
	assert.ErrorIs(err, lib.ErrEmpty)
	_, err = client.AddTask(ctx, strings.Repeat("x", 101), lib.CategoryKerja)
	assert.ErrorIs(err, lib.ErrTooLong)
	_, err = client.AddTask(ctx, "Hobby", "Hobby")
	assert.ErrorIs(err, lib.ErrNotValid)

	b, err := client.AddTask(ctx, "Essay", lib.CategoryKuliah)
	require.NoError(err)

	toggled, err := client.ToggleTask(ctx, b.ID)
	require.NoError(err)
	assert.True(toggled.Completed)

	edited, err := client.EditTask(ctx, a.ID, "Final report")
	require.NoError(err)
	assert.Equal("Final report", edited.Text)

	_, err = client.GetTask(ctx, "missing")
	assert.ErrorIs(err, lib.ErrNotFound)

	done, err := client.ListTasks(ctx, &lib.ListTasksOpts{Status: lib.StatusDone})
	require.NoError(err)
	require.Len(done, 1)
	assert.Equal("Essay", done[0].Text)

	found, err := client.ListTasks(ctx, &lib.ListTasksOpts{Search: "REPORT"})
	require.NoError(err)
	require.Len(found, 1)
	assert.Equal("Final report", found[0].Text)

	stats, err := client.Stats(ctx)
	require.NoError(err)
	assert.Equal(2, stats.Total)
	assert.Equal(50, stats.Progress)
	assert.Equal(map[lib.Category]int{
		lib.CategoryKuliah:   1,
		lib.CategoryKerja:    1,
		lib.CategoryPersonal: 0,
		lib.CategoryLainnya:  0,
	}, stats.Categories)
}

func TestClientRemoveAndUndo(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()
	client := newClient(t, lib.Config{RemoveDelay: time.Hour, UndoWindow: time.Hour})

	a, err := client.AddTask(ctx, "Essay", lib.CategoryKuliah)
	require.NoError(err)
	assert.False(client.Undo(), "nothing deleted yet")

	ok, err := client.RemoveTask(ctx, a.ID)
	require.NoError(err)
	assert.True(ok)

	tasks, err := client.ListTasks(ctx, nil)
	require.NoError(err)
	require.Len(tasks, 1)
	assert.True(tasks[0].Removing)

	assert.True(client.Undo())
	tasks, err = client.ListTasks(ctx, nil)
	require.NoError(err)
	require.Len(tasks, 1)
	assert.False(tasks[0].Removing)
	assert.Equal(a.ID, tasks[0].ID)
}

func TestClientRemoveDeclined(t *testing.T) {
	ctx := context.Background()
	var asked []string
	client := newClient(t, lib.Config{Confirm: func(_ context.Context, q string) (bool, error) {
		asked = append(asked, q)
		return false, nil
	}})

	_, err := client.AddTask(ctx, "Essay", lib.CategoryKuliah)
	require.NoError(t, err)

	ok, err := client.RemoveAllTasks(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Are you sure you want to delete all tasks?"}, asked)

	ok, err = client.RemoveCompletedTasks(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, asked, 1, "nothing completed so nothing is asked")
}

func TestClientExportImport(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	src := newClient(t, lib.Config{})
	_, err := src.AddTask(ctx, "Essay", lib.CategoryKuliah)
	require.NoError(err)

	var buf bytes.Buffer
	require.NoError(src.Export(ctx, &buf))
	assert.Contains(buf.String(), `"text": "Essay"`)

	dst := newClient(t, lib.Config{})
	err = dst.Import(ctx, strings.NewReader(`{"broken"`))
	assert.ErrorIs(err, lib.ErrMalformed)

	require.NoError(dst.Import(ctx, &buf))
	exp, err := src.ListTasks(ctx, nil)
	require.NoError(err)
	got, err := dst.ListTasks(ctx, nil)
	require.NoError(err)
	assert.Equal(exp, got)
}

func TestClientPersistence(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	client, err := lib.New(ctx, lib.Config{DataDir: dir})
	require.NoError(err)
	_, err = client.AddTask(ctx, "Essay", lib.CategoryKuliah)
	require.NoError(err)
	require.NoError(client.SetDarkMode(ctx, true))
	require.NoError(client.Close())

	client, err = lib.New(ctx, lib.Config{DataDir: dir})
	require.NoError(err)
	defer client.Close()

	tasks, err := client.ListTasks(ctx, nil)
	require.NoError(err)
	require.Len(tasks, 1)
	assert.Equal(t, "Essay", tasks[0].Text)
	assert.True(t, client.DarkMode())
}

func TestClientStoragePath(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "lists", "work.db")

	client, err := lib.New(ctx, lib.Config{DataDir: dir, StoragePath: dbPath})
	require.NoError(err)
	_, err = client.AddTask(ctx, "Deploy", lib.CategoryKerja)
	require.NoError(err)
	require.NoError(client.Close())
	assert.FileExists(t, dbPath)

	// The default location of the data dir is a different list.
	client, err = lib.New(ctx, lib.Config{DataDir: dir})
	require.NoError(err)
	tasks, err := client.ListTasks(ctx, nil)
	require.NoError(err)
	assert.Empty(t, tasks)
	require.NoError(client.Close())

	client, err = lib.New(ctx, lib.Config{DataDir: dir, StoragePath: dbPath})
	require.NoError(err)
	defer client.Close()
	tasks, err = client.ListTasks(ctx, nil)
	require.NoError(err)
	require.Len(tasks, 1)
	assert.Equal(t, "Deploy", tasks[0].Text)
}
