// Package tasklist holds the canonical task collection. Every mutation goes
// through the List methods, which validate against the current state.
package tasklist

import (
	"fmt"
	"sync"

	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/validate"
)

// List is the canonical, concurrency safe, task collection.
type List struct {
	mu       sync.RWMutex
	tasks    []model.Task
	watchers []func()
}

// New returns a list holding a copy of tasks.
func New(tasks []model.Task) *List {
	return &List{tasks: model.CloneTasks(tasks)}
}

// Watch registers f to be called after every change of the collection.
func (l *List) Watch(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers = append(l.watchers, f)
}

// Tasks returns a copy of the collection.
func (l *List) Tasks() []model.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.CloneTasks(l.tasks)
}

// Len returns the number of tasks.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tasks)
}

// Get returns the task with id.
func (l *List) Get(id string) (model.Task, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexLocked(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return l.tasks[i], nil
}

// Add validates and appends a new task, t.Text is normalized before storing.
func (l *List) Add(t model.Task) (model.Task, error) {
	if _, ok := model.ParseCategory(string(t.Category)); !ok {
		return model.Task{}, fmt.Errorf("unknown category %q: %w", t.Category, model.ErrNotValid)
	}

	l.mu.Lock()
	text, err := validate.ForAdd(t.Text, t.Category, l.tasks)
	if err != nil {
		l.mu.Unlock()
		return model.Task{}, err
	}
	if l.indexLocked(t.ID) >= 0 {
		l.mu.Unlock()
		return model.Task{}, fmt.Errorf("task %s: %w", t.ID, model.ErrAlreadyExists)
	}

	t.Text = text
	l.tasks = append(l.tasks, t)
	l.mu.Unlock()

	l.changed()
	return t, nil
}

// Toggle flips the completion state of a task.
func (l *List) Toggle(id string) (model.Task, error) {
	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	t := l.tasks[i]
	l.mu.Unlock()

	l.changed()
	return t, nil
}

// Edit replaces the text of a task. The duplicate check uses the collection as it
// is at the moment of the edit, ignoring the edited task.
func (l *List) Edit(id, text string) (model.Task, error) {
	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	n, err := validate.ForEdit(text, l.tasks[i].Category, id, l.tasks)
	if err != nil {
		l.mu.Unlock()
		return model.Task{}, err
	}
	l.tasks[i].Text = n
	t := l.tasks[i]
	l.mu.Unlock()

	l.changed()
	return t, nil
}

// Remove deletes the tasks with the ids and returns the removed ones.
func (l *List) Remove(ids []string) []model.Task {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	l.mu.Lock()
	kept := make([]model.Task, 0, len(l.tasks))
	var removed []model.Task
	for _, t := range l.tasks {
		if _, ok := drop[t.ID]; ok {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	l.tasks = kept
	l.mu.Unlock()

	if len(removed) > 0 {
		l.changed()
	}
	return removed
}

// Restore puts back the tasks with the same field values. Tasks that are still
// present are overwritten, missing ones are appended. Returns the number of
// tasks that were appended.
func (l *List) Restore(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}

	l.mu.Lock()
	added := 0
	for _, t := range tasks {
		if i := l.indexLocked(t.ID); i >= 0 {
			l.tasks[i] = t
			continue
		}
		l.tasks = append(l.tasks, t)
		added++
	}
	l.mu.Unlock()

	l.changed()
	return added
}

// Replace swaps the whole collection.
func (l *List) Replace(tasks []model.Task) {
	l.mu.Lock()
	l.tasks = model.CloneTasks(tasks)
	l.mu.Unlock()

	l.changed()
}

func (l *List) indexLocked(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) changed() {
	l.mu.RLock()
	watchers := make([]func(), len(l.watchers))
	copy(watchers, l.watchers)
	l.mu.RUnlock()

	for _, w := range watchers {
		w()
	}
}
