package projection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/projection"
)

var (
	t0 = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
	t2 = t0.Add(2 * time.Minute)
)

func fixtureTasks() []model.Task {
	return []model.Task{
		{ID: "a", Text: "Write report", Category: model.CategoryKerja, CreatedAt: t0},
		{ID: "b", Text: "Buy milk", Category: model.CategoryPersonal, Completed: true, CreatedAt: t1},
		{ID: "c", Text: "Study algebra", Category: model.CategoryKuliah, CreatedAt: t2},
		{ID: "d", Text: "Answer emails", Category: model.CategoryKerja, Completed: true, CreatedAt: t1},
	}
}

func ids(tasks []model.Task) []string {
	res := make([]string, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, t.ID)
	}
	return res
}

func TestProject(t *testing.T) {
	tests := map[string]struct {
		query  projection.Query
		expIDs []string
	}{
		"Default query should list everything newest first with alphabetical ties": {
			query:  projection.Query{},
			expIDs: []string{"c", "d", "b", "a"},
		},
		"Oldest first should keep the alphabetical tie break": {
			query:  projection.Query{Sort: projection.SortOldest},
			expIDs: []string{"a", "d", "b", "c"},
		},
		"Done filter should only keep completed tasks": {
			query:  projection.Query{Status: projection.StatusDone},
			expIDs: []string{"d", "b"},
		},
		"Todo filter should only keep pending tasks": {
			query:  projection.Query{Status: projection.StatusTodo},
			expIDs: []string{"c", "a"},
		},
		"Search should match text ignoring case": {
			query:  projection.Query{Search: "  MILK "},
			expIDs: []string{"b"},
		},
		"Search should match the category": {
			query:  projection.Query{Search: "kerja"},
			expIDs: []string{"d", "a"},
		},
		"Search and status filters should be combined": {
			query:  projection.Query{Search: "kerja", Status: projection.StatusTodo},
			expIDs: []string{"a"},
		},
		"A search without matches should return an empty view": {
			query:  projection.Query{Search: "nothing like this"},
			expIDs: []string{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			tasks := fixtureTasks()
			got := projection.Project(tasks, test.query)

			assert.Equal(test.expIDs, ids(got))
			assert.Equal(fixtureTasks(), tasks, "input should not be modified")
		})
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	tasks := []model.Task{
		{ID: "x2", Text: "Same", CreatedAt: t0},
		{ID: "x1", Text: "Same", CreatedAt: t0},
		{ID: "x3", Text: "Other", CreatedAt: t0},
	}
	reversed := []model.Task{tasks[2], tasks[1], tasks[0]}

	first := projection.Project(tasks, projection.Query{})
	for range 10 {
		assert.Equal(t, first, projection.Project(tasks, projection.Query{}))
	}
	assert.Equal(t, first, projection.Project(reversed, projection.Query{}))
	assert.Equal(t, []string{"x3", "x1", "x2"}, ids(first))
}

func TestProgress(t *testing.T) {
	tests := map[string]struct {
		tasks       []model.Task
		expProgress int
	}{
		"No tasks should be zero":     {tasks: nil, expProgress: 0},
		"No completed should be zero": {tasks: []model.Task{{}, {}}, expProgress: 0},
		"All completed should be 100": {tasks: []model.Task{{Completed: true}}, expProgress: 100},
		"Half should be 50":           {tasks: []model.Task{{Completed: true}, {}}, expProgress: 50},
		"Thirds should be rounded":    {tasks: []model.Task{{Completed: true}, {Completed: true}, {}}, expProgress: 67},
		"One of three should be 33":   {tasks: []model.Task{{Completed: true}, {}, {}}, expProgress: 33},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expProgress, projection.Progress(test.tasks))
		})
	}
}

func TestCategoryCounts(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Category: model.CategoryKuliah},
		{ID: "2", Category: model.CategoryKerja},
		{ID: "3", Category: model.CategoryKerja},
	}

	exp := map[model.Category]int{
		model.CategoryKuliah:   1,
		model.CategoryKerja:    2,
		model.CategoryPersonal: 0,
		model.CategoryLainnya:  0,
	}
	assert.Equal(t, exp, projection.CategoryCounts(tasks))
}
