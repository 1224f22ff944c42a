// Package projection derives the read only views of the task collection.
package projection

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/validate"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll  StatusFilter = "all"
	StatusDone StatusFilter = "done"
	StatusTodo StatusFilter = "todo"
)

// SortOrder is the creation time ordering of the view.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Query are the view options.
type Query struct {
	// Search matches tasks whose text or category contain it, ignoring case.
	Search string
	// Status defaults to StatusAll.
	Status StatusFilter
	// Sort defaults to SortNewest.
	Sort SortOrder
}

// Project returns the filtered and sorted tasks. The received tasks are not modified.
func Project(tasks []model.Task, q Query) []model.Task {
	search := strings.ToLower(validate.Normalize(q.Search))

	res := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Text), search) &&
			!strings.Contains(strings.ToLower(string(t.Category)), search) {
			continue
		}

		switch q.Status {
		case StatusDone:
			if !t.Completed {
				continue
			}
		case StatusTodo:
			if t.Completed {
				continue
			}
		}

		res = append(res, t)
	}

	newest := q.Sort != SortOldest
	slices.SortStableFunc(res, func(a, b model.Task) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if newest {
			c = -c
		}
		if c != 0 {
			return c
		}

		// Ties are always alphabetical, whatever the direction.
		if c := cmp.Compare(a.Text, b.Text); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return res
}

// Progress returns the rounded percentage of completed tasks, 0 if there are no tasks.
func Progress(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}

	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}

	return int(math.Round(float64(done) * 100 / float64(len(tasks))))
}

// CategoryCounts returns the number of tasks per known category, including the empty ones.
func CategoryCounts(tasks []model.Task) map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories))
	for _, c := range model.Categories {
		counts[c] = 0
	}

	for _, t := range tasks {
		if _, ok := counts[t.Category]; ok {
			counts[t.Category]++
		}
	}

	return counts
}
