// Package softdelete removes tasks in two phases: tasks are first marked as
// pending removal and a timer commits the removal later, unless the batch is
// undone first.
package softdelete

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/timer"
)

// DefaultDelay is the time a batch stays marked before being removed.
const DefaultDelay = 220 * time.Millisecond

// UndoLabel is the label of the action bound to the deletion notifications.
const UndoLabel = "Undo"

// Collection is the task collection the manager removes from and restores into.
type Collection interface {
	Tasks() []model.Task
	Remove(ids []string) []model.Task
	Restore(tasks []model.Task) int
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Notifier shows the deletion notification.
type Notifier interface {
	Show(msg string, action *model.Action)
}

// ManagerConfig is the configuration for the Manager.
type ManagerConfig struct {
	Collection Collection
	Confirmer  Confirmer
	Notifier   Notifier
	Scheduler  timer.Scheduler
	Delay      time.Duration
	// NewBatchID returns the id for a deletion batch.
	NewBatchID func() string
	Logger     log.Logger
}

func (c *ManagerConfig) defaults() error {
	if c.Collection == nil {
		return fmt.Errorf("collection is required")
	}
	if c.Confirmer == nil {
		return fmt.Errorf("confirmer is required")
	}
	if c.Notifier == nil {
		return fmt.Errorf("notifier is required")
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
	if c.NewBatchID == nil {
		c.NewBatchID = func() string { return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String() }
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "softdelete.Manager"})
	return nil
}

type batch struct {
	ids    []string
	handle timer.Handle
}

// Manager orchestrates the soft deletion batches and their undo.
type Manager struct {
	coll       Collection
	confirmer  Confirmer
	notifier   Notifier
	sched      timer.Scheduler
	delay      time.Duration
	newBatchID func() string
	logger     log.Logger

	mu      sync.Mutex
	batches map[string]*batch
	pending map[string]string // Task ID -> batch ID.

	// applyMu makes a commit and an undo of the same batch apply to the
	// collection one after the other, never interleaved.
	applyMu sync.Mutex
}

// NewManager returns a new soft-delete manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Manager{
		coll:       cfg.Collection,
		confirmer:  cfg.Confirmer,
		notifier:   cfg.Notifier,
		sched:      cfg.Scheduler,
		delay:      cfg.Delay,
		newBatchID: cfg.NewBatchID,
		logger:     cfg.Logger,
		batches:    map[string]*batch{},
		pending:    map[string]string{},
	}, nil
}

// Request is a deletion request.
type Request struct {
	// IDs are the tasks to delete, unknown and already pending ones are ignored.
	IDs []string
	// Prompt is the confirmation question.
	Prompt string
	// Message is the notification shown with the undo action.
	Message string
}

// RequestDelete asks for confirmation and marks the tasks for removal. Returns
// false without changing anything if the user declines or nothing is left to delete.
func (m *Manager) RequestDelete(ctx context.Context, req Request) (bool, error) {
	ok, err := m.confirmer.Confirm(ctx, req.Prompt)
	if err != nil {
		return false, fmt.Errorf("could not confirm deletion: %w", err)
	}
	if !ok {
		m.logger.Debugf("Deletion of %d tasks declined", len(req.IDs))
		return false, nil
	}

	want := make(map[string]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		want[id] = struct{}{}
	}

	m.mu.Lock()
	var snapshot []model.Task
	var ids []string
	for _, t := range m.coll.Tasks() {
		if _, ok := want[t.ID]; !ok {
			continue
		}
		if _, ok := m.pending[t.ID]; ok {
			continue
		}
		snapshot = append(snapshot, t)
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		m.mu.Unlock()
		return false, nil
	}

	batchID := m.newBatchID()
	b := &batch{ids: ids}
	m.batches[batchID] = b
	for _, id := range ids {
		m.pending[id] = batchID
	}
	b.handle = m.sched.AfterFunc(m.delay, func() { m.commit(batchID) })
	m.mu.Unlock()

	m.logger.Debugf("Marked %d tasks for removal in batch %s", len(ids), batchID)
	m.notifier.Show(req.Message, &model.Action{
		Kind:     model.ActionUndo,
		Label:    UndoLabel,
		Batch:    batchID,
		Snapshot: snapshot,
	})

	return true, nil
}

// Undo restores the snapshot of an undo action. If the batch is still marked its
// commit is cancelled, if it was already committed the snapshot is put back.
// Returns the number of tasks restored.
func (m *Manager) Undo(action model.Action) (int, error) {
	if action.Kind != model.ActionUndo {
		return 0, fmt.Errorf("action %q is not an undo: %w", action.Kind, model.ErrNotValid)
	}

	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	m.mu.Lock()
	if b, ok := m.batches[action.Batch]; ok {
		b.handle.Stop()
		m.dropLocked(action.Batch, b)
	}
	m.mu.Unlock()

	m.coll.Restore(action.Snapshot)
	m.logger.Debugf("Restored %d tasks from batch %s", len(action.Snapshot), action.Batch)

	return len(action.Snapshot), nil
}

// IsPending returns true if the task is marked for removal.
func (m *Manager) IsPending(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.pending[id]
	return ok
}

// Pending returns the sorted ids of the tasks marked for removal.
func (m *Manager) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CommitAll removes every marked task now, without waiting for the timers.
func (m *Manager) CommitAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.batches))
	for id, b := range m.batches {
		b.handle.Stop()
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.commit(id)
	}
}

// Discard forgets every marked batch without removing its tasks.
func (m *Manager) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, b := range m.batches {
		b.handle.Stop()
		m.dropLocked(id, b)
	}
}

func (m *Manager) commit(batchID string) {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	m.mu.Lock()
	b, ok := m.batches[batchID]
	if !ok {
		// Undone or discarded before the timer fired.
		m.mu.Unlock()
		return
	}
	m.dropLocked(batchID, b)
	m.mu.Unlock()

	removed := m.coll.Remove(b.ids)
	m.logger.Debugf("Removed %d tasks from batch %s", len(removed), batchID)
}

func (m *Manager) dropLocked(batchID string, b *batch) {
	delete(m.batches, batchID)
	for _, id := range b.ids {
		if m.pending[id] == batchID {
			delete(m.pending, id)
		}
	}
}
