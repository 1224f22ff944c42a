// Package todo is the task list engine: it owns the canonical collection and
// wires validation, projections, soft deletion, persistence and notifications.
package todo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/slok/tdo/internal/codec"
	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/notify"
	"github.com/slok/tdo/internal/persist"
	"github.com/slok/tdo/internal/projection"
	"github.com/slok/tdo/internal/softdelete"
	"github.com/slok/tdo/internal/storage"
	"github.com/slok/tdo/internal/tasklist"
	"github.com/slok/tdo/internal/timer"
	"github.com/slok/tdo/internal/validate"
)

// Notification messages.
const (
	MsgDeleted          = "Task deleted"
	MsgCompletedDeleted = "Completed tasks deleted"
	MsgAllDeleted       = "All tasks deleted"
	MsgUpdated          = "Task updated"
	MsgAllDone          = "All tasks completed! 🎉"
	MsgExported         = "Data exported"
	MsgImported         = "Data imported"
)

// Quotes are shown after adding a task.
var Quotes = []string{
	"Little by little, a hill is built",
	"Focus on the next step",
	"Consistency is the key",
	"You are closer than you think",
	"Today is better than yesterday",
}

// Exporter delivers an exported file to the user.
type Exporter interface {
	Export(ctx context.Context, filename string, data []byte) error
}

// Selection is a user selected file to import. It's cleared after every import attempt.
type Selection interface {
	Read(ctx context.Context) ([]byte, error)
	Clear()
}

// ServiceConfig is the configuration for the task list service.
type ServiceConfig struct {
	Store     storage.KV
	Confirmer softdelete.Confirmer
	Exporter  Exporter
	Scheduler timer.Scheduler
	Now       func() time.Time
	// NewID returns the id of a task created at createdAt.
	NewID func(createdAt time.Time) string
	// Quote returns the message shown after adding a task.
	Quote func() string

	SaveDelay       time.Duration
	RemoveDelay     time.Duration
	NotificationTTL time.Duration

	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Confirmer == nil {
		return fmt.Errorf("confirmer is required")
	}
	if c.Scheduler == nil {
		c.Scheduler = timer.Real
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewID == nil {
		c.NewID = codec.NewID
	}
	if c.Quote == nil {
		c.Quote = func() string { return Quotes[rand.IntN(len(Quotes))] }
	}
	if c.SaveDelay == 0 {
		c.SaveDelay = persist.DefaultDelay
	}
	if c.RemoveDelay == 0 {
		c.RemoveDelay = softdelete.DefaultDelay
	}
	if c.NotificationTTL == 0 {
		c.NotificationTTL = notify.DefaultTTL
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "todo.Service"})
	return nil
}

// Service is the task list engine.
type Service struct {
	list      *tasklist.List
	notifier  *notify.Notifier
	deleter   *softdelete.Manager
	persister *persist.Scheduler
	exporter  Exporter
	decoder   codec.Decoder
	now       func() time.Time
	newID     func(time.Time) string
	quote     func() string
	logger    log.Logger

	mu   sync.Mutex
	dark bool
}

// NewService loads the persisted state and returns a ready service.
func NewService(ctx context.Context, cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	decoder := codec.Decoder{Now: cfg.Now, NewID: cfg.NewID}
	state, err := persist.Load(ctx, cfg.Store, decoder, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("could not load state: %w", err)
	}

	s := &Service{
		list:     tasklist.New(state.Tasks),
		exporter: cfg.Exporter,
		decoder:  decoder,
		now:      cfg.Now,
		newID:    cfg.NewID,
		quote:    cfg.Quote,
		logger:   cfg.Logger,
		dark:     state.Dark,
	}

	s.notifier, err = notify.NewNotifier(notify.NotifierConfig{
		Scheduler: cfg.Scheduler,
		TTL:       cfg.NotificationTTL,
		Now:       cfg.Now,
		OnAction:  s.handleAction,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create notifier: %w", err)
	}

	s.deleter, err = softdelete.NewManager(softdelete.ManagerConfig{
		Collection: s.list,
		Confirmer:  cfg.Confirmer,
		Notifier:   s.notifier,
		Scheduler:  cfg.Scheduler,
		Delay:      cfg.RemoveDelay,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create soft-delete manager: %w", err)
	}

	s.persister, err = persist.NewScheduler(persist.SchedulerConfig{
		Store:     cfg.Store,
		Scheduler: cfg.Scheduler,
		Delay:     cfg.SaveDelay,
		Source:    s.list.Tasks,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create persistence scheduler: %w", err)
	}
	s.list.Watch(s.persister.CollectionChanged)

	s.logger.Debugf("Loaded %d tasks", len(state.Tasks))
	return s, nil
}

// Add creates a new task.
func (s *Service) Add(ctx context.Context, text string, category model.Category) (model.Task, error) {
	createdAt := time.UnixMilli(s.now().UnixMilli()).UTC()
	t, err := s.list.Add(model.Task{
		ID:        s.newID(createdAt),
		Text:      text,
		Category:  category,
		CreatedAt: createdAt,
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("could not add task: %w", err)
	}

	s.notifier.Show(s.quote(), nil)
	s.logger.Infof("Added task %s", t.ID)
	return t, nil
}

// Toggle flips the completion state of a task.
func (s *Service) Toggle(ctx context.Context, id string) (model.Task, error) {
	t, err := s.list.Toggle(id)
	if err != nil {
		return model.Task{}, fmt.Errorf("could not toggle task: %w", err)
	}

	if t.Completed && allCompleted(s.list.Tasks()) {
		s.notifier.Show(MsgAllDone, nil)
	}
	return t, nil
}

// Edit changes the text of a task. Validation failures are also notified.
func (s *Service) Edit(ctx context.Context, id, text string) (model.Task, error) {
	t, err := s.list.Edit(id, text)
	if err != nil {
		if msg := ErrorMessage(err); msg != "" {
			s.notifier.Show(msg, nil)
		}
		return model.Task{}, fmt.Errorf("could not edit task: %w", err)
	}

	s.notifier.Show(MsgUpdated, nil)
	return t, nil
}

// Delete soft deletes a task after confirmation. Returns false if declined.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	t, err := s.list.Get(id)
	if err != nil {
		return false, fmt.Errorf("could not delete task: %w", err)
	}

	return s.deleter.RequestDelete(ctx, softdelete.Request{
		IDs:     []string{t.ID},
		Prompt:  fmt.Sprintf("Delete task %q?", t.Text),
		Message: MsgDeleted,
	})
}

// DeleteCompleted soft deletes every completed task after confirmation.
// It's a no-op when there are no completed tasks.
func (s *Service) DeleteCompleted(ctx context.Context) (bool, error) {
	var ids []string
	for _, t := range s.list.Tasks() {
		if t.Completed {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return false, nil
	}

	return s.deleter.RequestDelete(ctx, softdelete.Request{
		IDs:     ids,
		Prompt:  "Delete all completed tasks?",
		Message: MsgCompletedDeleted,
	})
}

// DeleteAll soft deletes every task after confirmation. It's a no-op when empty.
func (s *Service) DeleteAll(ctx context.Context) (bool, error) {
	tasks := s.list.Tasks()
	if len(tasks) == 0 {
		return false, nil
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	return s.deleter.RequestDelete(ctx, softdelete.Request{
		IDs:     ids,
		Prompt:  "Are you sure you want to delete all tasks?",
		Message: MsgAllDeleted,
	})
}

// Find returns the task with id, or the only task whose id starts with ref.
func (s *Service) Find(ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, fmt.Errorf("task reference is required: %w", model.ErrNotValid)
	}

	if t, err := s.list.Get(ref); err == nil {
		return t, nil
	}

	var found []model.Task
	for _, t := range s.list.Tasks() {
		if strings.HasPrefix(strings.ToUpper(t.ID), strings.ToUpper(ref)) {
			found = append(found, t)
		}
	}

	switch len(found) {
	case 0:
		return model.Task{}, fmt.Errorf("task %s: %w", ref, model.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return model.Task{}, fmt.Errorf("task reference %s matches %d tasks: %w", ref, len(found), model.ErrNotValid)
	}
}

// Notification returns the live notification.
func (s *Service) Notification() (model.Notification, bool) { return s.notifier.Current() }

// ConsumeNotification runs the action of the live notification, e.g. an undo.
func (s *Service) ConsumeNotification() bool { return s.notifier.Consume() }

// DismissNotification removes the live notification without running its action.
func (s *Service) DismissNotification() { s.notifier.Clear() }

// View is the display state of the collection.
type View struct {
	Tasks []model.Task
	// Removing has the ids of the shown tasks that are pending removal.
	Removing map[string]bool
	Stats    model.Stats
	Dark     bool
}

// View returns the projection of the collection for the query.
func (s *Service) View(q projection.Query) View {
	tasks := s.list.Tasks()
	shown := projection.Project(tasks, q)

	removing := map[string]bool{}
	for _, t := range shown {
		if s.deleter.IsPending(t.ID) {
			removing[t.ID] = true
		}
	}

	return View{
		Tasks:    shown,
		Removing: removing,
		Stats:    statsOf(tasks),
		Dark:     s.Theme(),
	}
}

// Stats returns the aggregated values of the collection.
func (s *Service) Stats() model.Stats { return statsOf(s.list.Tasks()) }

// Export delivers the serialized collection to the configured exporter.
func (s *Service) Export(ctx context.Context) error {
	if s.exporter == nil {
		return fmt.Errorf("export is not available: %w", model.ErrNotValid)
	}
	return s.ExportTo(ctx, s.exporter)
}

// ExportTo delivers the serialized collection to exporter.
func (s *Service) ExportTo(ctx context.Context, exporter Exporter) error {
	data, err := codec.Export(s.list.Tasks())
	if err != nil {
		return fmt.Errorf("could not export tasks: %w", err)
	}

	if err := exporter.Export(ctx, codec.ExportFilename, data); err != nil {
		return fmt.Errorf("could not deliver export: %w", err)
	}

	s.notifier.Show(MsgExported, nil)
	return nil
}

// Import replaces the whole collection with the tasks of the selected file.
// On any failure the collection is left untouched. The selection is always cleared.
func (s *Service) Import(ctx context.Context, sel Selection) error {
	defer sel.Clear()

	data, err := sel.Read(ctx)
	if err != nil {
		return fmt.Errorf("could not read import: %w", err)
	}

	tasks, err := s.decoder.Decode(data)
	if err != nil {
		return fmt.Errorf("invalid or corrupt file, expected a JSON array of tasks: %w", err)
	}

	// Pending removals refer to the old collection.
	s.deleter.Discard()
	s.list.Replace(tasks)

	s.notifier.Show(MsgImported, nil)
	s.logger.Infof("Imported %d tasks", len(tasks))
	return nil
}

// Theme returns true when dark mode is enabled.
func (s *Service) Theme() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// SetTheme changes and saves the theme flag.
func (s *Service) SetTheme(ctx context.Context, dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dark == dark {
		return nil
	}

	if err := s.persister.SaveTheme(ctx, dark); err != nil {
		return fmt.Errorf("could not set theme: %w", err)
	}
	s.dark = dark
	return nil
}

// ToggleTheme flips the theme flag and returns the new value.
func (s *Service) ToggleTheme(ctx context.Context) (bool, error) {
	dark := !s.Theme()
	if err := s.SetTheme(ctx, dark); err != nil {
		return !dark, err
	}
	return dark, nil
}

// Close commits the pending removals and writes the pending changes.
func (s *Service) Close(ctx context.Context) error {
	s.deleter.CommitAll()
	s.notifier.Clear()

	if err := s.persister.Flush(ctx); err != nil {
		return fmt.Errorf("could not save tasks: %w", err)
	}
	return nil
}

func (s *Service) handleAction(a model.Action) {
	switch a.Kind {
	case model.ActionUndo:
		n, err := s.deleter.Undo(a)
		if err != nil {
			s.logger.Errorf("Could not undo: %s", err)
			return
		}
		s.logger.Infof("Undo restored %d tasks", n)
	default:
		s.logger.Warningf("Unknown notification action %q", a.Kind)
	}
}

// ErrorMessage returns the user facing message of a validation error, empty if
// err is not one.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrEmpty):
		return "Task can't be empty"
	case errors.Is(err, model.ErrTooLong):
		return fmt.Sprintf("Max %d characters", validate.MaxTextLength)
	case errors.Is(err, model.ErrDuplicate):
		return "A task with the same text already exists in this category"
	default:
		return ""
	}
}

func statsOf(tasks []model.Task) model.Stats {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	return model.Stats{
		Total:      len(tasks),
		Completed:  completed,
		Progress:   projection.Progress(tasks),
		Categories: projection.CategoryCounts(tasks),
	}
}

func allCompleted(tasks []model.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}
