package lib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/conventions"
	"github.com/slok/tdo/internal/fileio"
	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/prompt"
	"github.com/slok/tdo/internal/softdelete"
	"github.com/slok/tdo/internal/storage/backend"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses ~/.tdo/tdo.db, the same list
// as the CLI.
type Config struct {
	// DataDir is the base directory for tdo data.
	// Default: ~/.tdo.
	DataDir string

	// Storage is the backend. Default: [StorageSQLite].
	Storage StorageType

	// StoragePath overrides the default store location in DataDir: the
	// database file for SQLite, the directory for diskv.
	StoragePath string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// Confirm is asked before every deletion with the confirmation question.
	// Default: every deletion is confirmed.
	Confirm func(ctx context.Context, question string) (bool, error)

	// RemoveDelay is how long deleted tasks stay pending removal.
	// Default: 220ms.
	RemoveDelay time.Duration

	// UndoWindow is how long a deletion can be undone.
	// Default: 2.5s.
	UndoWindow time.Duration
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, conventions.DefaultDataDir)
	}

	if c.Storage == "" {
		c.Storage = StorageSQLite
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.RemoveDelay < 0 || c.UndoWindow < 0 {
		return fmt.Errorf("delays can't be negative: %w", ErrNotValid)
	}

	return nil
}

type confirmFunc func(ctx context.Context, question string) (bool, error)

func (f confirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// Client is the main SDK entry point for managing a task list programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	svc     *todo.Service
	logger  log.Logger
	closeFn func() error
}

// New creates a new SDK client and loads the stored task list.
//
// The caller must call [Client.Close] when done to save pending changes and
// release the store. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := backend.Open(ctx, backend.Config{
		Backend: model.StorageBackend(cfg.Storage),
		DataDir: cfg.DataDir,
		Path:    cfg.StoragePath,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create store: %w", mapError(err))
	}

	var confirmer softdelete.Confirmer = prompt.Static(true)
	if cfg.Confirm != nil {
		confirmer = confirmFunc(cfg.Confirm)
	}

	svc, err := todo.NewService(ctx, todo.ServiceConfig{
		Store:           store,
		Confirmer:       confirmer,
		RemoveDelay:     cfg.RemoveDelay,
		NotificationTTL: cfg.UndoWindow,
		Logger:          cfg.Logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	return &Client{
		svc:     svc,
		logger:  cfg.Logger,
		closeFn: store.Close,
	}, nil
}

// Close commits pending removals, saves pending changes and releases the store.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	err := c.svc.Close(context.Background())
	if cerr := c.closeFn(); err == nil {
		err = cerr
	}
	return err
}

// AddTask adds a task. The text is normalized (trimmed and inner whitespace collapsed).
//
// Returns [ErrEmpty], [ErrTooLong] or [ErrDuplicate] if the text is rejected and
// [ErrNotValid] for unknown categories.
func (c *Client) AddTask(ctx context.Context, text string, category Category) (*Task, error) {
	t, err := c.svc.Add(ctx, text, model.Category(category))
	if err != nil {
		return nil, mapError(err)
	}
	task := fromInternalTask(t, false)
	return &task, nil
}

// GetTask returns a task by id or unique id prefix.
func (c *Client) GetTask(ctx context.Context, ref string) (*Task, error) {
	t, err := c.svc.Find(ref)
	if err != nil {
		return nil, mapError(err)
	}
	task := fromInternalTask(t, false)
	return &task, nil
}

// ListTasks returns the tasks matching opts, newest first by default.
// Pass nil to list every task.
func (c *Client) ListTasks(ctx context.Context, opts *ListTasksOpts) ([]Task, error) {
	view := c.svc.View(toInternalQuery(opts))

	tasks := make([]Task, 0, len(view.Tasks))
	for _, t := range view.Tasks {
		tasks = append(tasks, fromInternalTask(t, view.Removing[t.ID]))
	}
	return tasks, nil
}

// ToggleTask flips the completion state of a task.
func (c *Client) ToggleTask(ctx context.Context, ref string) (*Task, error) {
	t, err := c.svc.Find(ref)
	if err != nil {
		return nil, mapError(err)
	}

	t, err = c.svc.Toggle(ctx, t.ID)
	if err != nil {
		return nil, mapError(err)
	}
	task := fromInternalTask(t, false)
	return &task, nil
}

// EditTask changes the text of a task, the text is validated like in [Client.AddTask].
func (c *Client) EditTask(ctx context.Context, ref, text string) (*Task, error) {
	t, err := c.svc.Find(ref)
	if err != nil {
		return nil, mapError(err)
	}

	t, err = c.svc.Edit(ctx, t.ID, text)
	if err != nil {
		return nil, mapError(err)
	}
	task := fromInternalTask(t, false)
	return &task, nil
}

// RemoveTask deletes a task. Returns false if the deletion was not confirmed.
func (c *Client) RemoveTask(ctx context.Context, ref string) (bool, error) {
	t, err := c.svc.Find(ref)
	if err != nil {
		return false, mapError(err)
	}

	ok, err := c.svc.Delete(ctx, t.ID)
	return ok, mapError(err)
}

// RemoveCompletedTasks deletes every completed task. Returns false if there was
// nothing to delete or the deletion was not confirmed.
func (c *Client) RemoveCompletedTasks(ctx context.Context) (bool, error) {
	ok, err := c.svc.DeleteCompleted(ctx)
	return ok, mapError(err)
}

// RemoveAllTasks deletes every task. Returns false if there was nothing to
// delete or the deletion was not confirmed.
func (c *Client) RemoveAllTasks(ctx context.Context) (bool, error) {
	ok, err := c.svc.DeleteAll(ctx)
	return ok, mapError(err)
}

// Undo restores the tasks of the last deletion if its undo window is still open.
// Returns false when there is nothing to undo.
func (c *Client) Undo() bool {
	n, ok := c.svc.Notification()
	if !ok || n.Action == nil || n.Action.Kind != model.ActionUndo {
		return false
	}
	return c.svc.ConsumeNotification()
}

// Stats returns the progress and the number of tasks per category.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	s := fromInternalStats(c.svc.Stats())
	return &s, nil
}

// Export writes the task list as JSON to w, the same format the CLI exports.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	return mapError(c.svc.ExportTo(ctx, fileio.WriterExporter{Writer: w}))
}

// Import replaces the whole task list with the JSON tasks read from r.
// Nothing changes if the data is invalid.
func (c *Client) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read import: %w", err)
	}

	return mapError(c.svc.Import(ctx, &bytesSelection{data: data}))
}

// DarkMode returns the theme preference.
func (c *Client) DarkMode() bool { return c.svc.Theme() }

// SetDarkMode saves the theme preference.
func (c *Client) SetDarkMode(ctx context.Context, dark bool) error {
	return mapError(c.svc.SetTheme(ctx, dark))
}

type bytesSelection struct {
	data []byte
}

func (b *bytesSelection) Read(context.Context) ([]byte, error) {
	if b.data == nil {
		return nil, fmt.Errorf("nothing selected")
	}
	return bytes.Clone(b.data), nil
}

func (b *bytesSelection) Clear() { b.data = nil }
