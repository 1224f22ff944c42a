package lib

import (
	"errors"
	"time"

	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/projection"
)

// Category is the classification tag of a task.
type Category string

const (
	CategoryKuliah   Category = "Kuliah"
	CategoryKerja    Category = "Kerja"
	CategoryPersonal Category = "Personal"
	CategoryLainnya  Category = "Lainnya"
)

// StorageType is the backend used to persist the task list.
type StorageType string

const (
	// StorageSQLite stores the task list in a SQLite database (default).
	StorageSQLite StorageType = "sqlite"
	// StorageDiskv stores the task list as plain files.
	StorageDiskv StorageType = "diskv"
	// StorageMemory keeps the task list in memory, nothing survives the client.
	StorageMemory StorageType = "memory"
)

// Task is a single task of the list.
type Task struct {
	ID        string
	Text      string
	Category  Category
	Completed bool
	CreatedAt time.Time
	// Removing is true while the task is pending removal.
	Removing bool
}

// TaskStatus filters tasks by completion.
type TaskStatus string

const (
	StatusAll  TaskStatus = "all"
	StatusDone TaskStatus = "done"
	StatusTodo TaskStatus = "todo"
)

// ListTasksOpts are the options for listing tasks.
type ListTasksOpts struct {
	// Search keeps the tasks whose text contains it, case insensitive.
	Search string
	// Status defaults to [StatusAll].
	Status TaskStatus
	// Oldest sorts by creation time ascending instead of newest first.
	Oldest bool
}

// Stats are the aggregated values of the task list.
type Stats struct {
	Total     int
	Completed int
	// Progress is the completed percentage (0-100).
	Progress   int
	Categories map[Category]int
}

func fromInternalTask(t model.Task, removing bool) Task {
	return Task{
		ID:        t.ID,
		Text:      t.Text,
		Category:  Category(t.Category),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		Removing:  removing,
	}
}

func fromInternalStats(s model.Stats) Stats {
	cats := make(map[Category]int, len(s.Categories))
	for c, n := range s.Categories {
		cats[Category(c)] = n
	}
	return Stats{
		Total:      s.Total,
		Completed:  s.Completed,
		Progress:   s.Progress,
		Categories: cats,
	}
}

func toInternalQuery(opts *ListTasksOpts) projection.Query {
	if opts == nil {
		return projection.Query{}
	}

	q := projection.Query{
		Search: opts.Search,
		Status: projection.StatusFilter(opts.Status),
		Sort:   projection.SortNewest,
	}
	if opts.Oldest {
		q.Sort = projection.SortOldest
	}
	return q
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	for _, m := range []struct{ internal, public error }{
		{model.ErrNotFound, ErrNotFound},
		{model.ErrNotValid, ErrNotValid},
		{model.ErrEmpty, ErrEmpty},
		{model.ErrTooLong, ErrTooLong},
		{model.ErrDuplicate, ErrDuplicate},
		{model.ErrMalformed, ErrMalformed},
	} {
		if errors.Is(err, m.internal) {
			return &mappedError{original: err, sentinel: m.public}
		}
	}
	return err
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool { return target == e.sentinel }

func (e *mappedError) Unwrap() error { return e.original }
