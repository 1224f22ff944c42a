// Package persist saves the task collection and the theme flag in the durable store.
// Collection saves are debounced so only the last state of a burst of changes is written.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/slok/tdo/internal/codec"
	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/storage"
	"github.com/slok/tdo/internal/timer"
)

const (
	// TasksKey is the store key of the serialized collection.
	TasksKey = "tasks"
	// ThemeKey is the store key of the dark mode flag.
	ThemeKey = "darkMode"

	// DefaultDelay is the quiet period before the collection is written.
	DefaultDelay = 250 * time.Millisecond
)

// SchedulerConfig is the configuration for the Scheduler.
type SchedulerConfig struct {
	Store     storage.KV
	Scheduler timer.Scheduler
	Delay     time.Duration
	// Source returns the collection to save, it's read when the save runs.
	Source func() []model.Task
	Logger log.Logger
}

func (c *SchedulerConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Source == nil {
		return fmt.Errorf("source is required")
	}
	if c.Scheduler == nil {
		c.Scheduler = timer.Real
	}
	if c.Delay == 0 {
		c.Delay = DefaultDelay
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "persist.Scheduler"})
	return nil
}

// Scheduler debounces the collection writes.
type Scheduler struct {
	store  storage.KV
	slot   *timer.Slot
	delay  time.Duration
	source func() []model.Task
	logger log.Logger

	// mu serializes the writes so an older state never overwrites a newer one.
	mu sync.Mutex
}

// NewScheduler returns a new persistence scheduler.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Scheduler{
		store:  cfg.Store,
		slot:   timer.NewSlot(cfg.Scheduler),
		delay:  cfg.Delay,
		source: cfg.Source,
		logger: cfg.Logger,
	}, nil
}

// CollectionChanged restarts the quiet period, cancelling the pending write.
func (s *Scheduler) CollectionChanged() {
	s.slot.Schedule(s.delay, func() {
		// Failures are logged only, the next change retries with the full collection.
		_ = s.save(context.Background())
	})
}

// Pending returns true if a write is waiting for the quiet period.
func (s *Scheduler) Pending() bool { return s.slot.Pending() }

// Flush writes the pending collection now. It's a no-op without pending changes.
func (s *Scheduler) Flush(ctx context.Context) error {
	if !s.slot.Cancel() {
		// A write whose timer already fired may still be running.
		s.slot.Wait()
		return nil
	}
	return s.save(ctx)
}

// SaveTheme writes the theme flag without debouncing.
func (s *Scheduler) SaveTheme(ctx context.Context, dark bool) error {
	data, err := json.Marshal(dark)
	if err != nil {
		return fmt.Errorf("could not marshal theme: %w", err)
	}

	if err := s.store.Set(ctx, ThemeKey, data); err != nil {
		return fmt.Errorf("could not store theme: %w", err)
	}
	return nil
}

func (s *Scheduler) save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.source()
	data, err := codec.Export(tasks)
	if err != nil {
		s.logger.Warningf("Could not serialize tasks: %s", err)
		return fmt.Errorf("could not serialize tasks: %w", err)
	}

	if err := s.store.Set(ctx, TasksKey, data); err != nil {
		s.logger.Warningf("Could not save tasks: %s", err)
		return fmt.Errorf("could not save tasks: %w", err)
	}

	s.logger.Debugf("Saved %d tasks", len(tasks))
	return nil
}

// State is the persisted state.
type State struct {
	Tasks []model.Task
	Dark  bool
}

// Load reads the persisted state. Missing or unexpected entries are treated as
// absent, only store failures are returned.
func Load(ctx context.Context, store storage.KV, dec codec.Decoder, logger log.Logger) (State, error) {
	if logger == nil {
		logger = log.Noop
	}

	state := State{Tasks: []model.Task{}}

	data, err := store.Get(ctx, TasksKey)
	switch {
	case errors.Is(err, model.ErrNotFound):
	case err != nil:
		return State{}, fmt.Errorf("could not get tasks: %w", err)
	default:
		tasks, err := dec.Decode(data)
		if err != nil {
			logger.Warningf("Ignoring stored tasks: %s", err)
			break
		}
		state.Tasks = tasks
	}

	data, err = store.Get(ctx, ThemeKey)
	switch {
	case errors.Is(err, model.ErrNotFound):
	case err != nil:
		return State{}, fmt.Errorf("could not get theme: %w", err)
	default:
		if err := json.Unmarshal(data, &state.Dark); err != nil {
			logger.Warningf("Ignoring stored theme: %s", err)
			state.Dark = false
		}
	}

	return state, nil
}
