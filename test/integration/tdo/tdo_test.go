package tdo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
}

func listTasks(ctx context.Context, t *testing.T, r runner, args ...string) []jsonTask {
	t.Helper()

	out, err := r.run(ctx, "", append([]string{"list", "--format", "json"}, args...)...)
	require.NoError(t, err)

	var tasks []jsonTask
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	return tasks
}

func TestTDOLifecycle(t *testing.T) {
	config := NewConfig(t)

	for _, storage := range []string{"sqlite", "diskv"} {
		t.Run(storage, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			r := newRunner(t, config, storage)

			_, err := r.run(ctx, "", "add", "--category", "Kerja", "Write", "report")
			require.NoError(err)
			time.Sleep(5 * time.Millisecond)
			_, err = r.run(ctx, "", "add", "Essay")
			require.NoError(err)

			_, err = r.run(ctx, "", "add", "write", "REPORT", "--category", "Kerja")
			assert.Error(err, "duplicate in the same category")

			tasks := listTasks(ctx, t, r)
			require.Len(tasks, 2)
			assert.Equal("Essay", tasks[0].Text)
			assert.Equal("Kuliah", tasks[0].Category)

			_, err = r.run(ctx, "", "toggle", tasks[0].ID)
			require.NoError(err)
			done := listTasks(ctx, t, r, "--status", "done")
			require.Len(done, 1)
			assert.Equal("Essay", done[0].Text)

			// Declined deletion keeps the task.
			_, err = r.run(ctx, "n\n", "rm", tasks[1].ID)
			require.NoError(err)
			assert.Len(listTasks(ctx, t, r), 2)

			_, err = r.run(ctx, "y\n", "clear-done")
			require.NoError(err)
			tasks = listTasks(ctx, t, r)
			require.Len(tasks, 1)
			assert.Equal("Write report", tasks[0].Text)

			out, err := r.run(ctx, "", "stats", "--format", "json")
			require.NoError(err)
			assert.Contains(out, `"progress": 0`)
		})
	}
}

func TestTDOExportImport(t *testing.T) {
	config := NewConfig(t)
	require := require.New(t)
	assert := assert.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	src := newRunner(t, config, "sqlite")
	_, err := src.run(ctx, "", "add", "--category", "Personal", "Buy", "milk")
	require.NoError(err)

	exportDir := t.TempDir()
	_, err = src.run(ctx, "", "export", "--dir", exportDir)
	require.NoError(err)

	dst := newRunner(t, config, "sqlite")
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(os.WriteFile(bad, []byte(`[{"text": ""}]`), 0o644))
	_, err = dst.run(ctx, "", "import", bad)
	assert.Error(err)

	_, err = dst.run(ctx, "", "import", filepath.Join(exportDir, "tasks.json"))
	require.NoError(err)

	assert.Equal(listTasks(ctx, t, src), listTasks(ctx, t, dst))
}

func TestTDOShellUndo(t *testing.T) {
	config := NewConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	r := newRunner(t, config, "sqlite")

	_, err := r.run(ctx, "", "add", "Essay")
	require.NoError(t, err)
	tasks := listTasks(ctx, t, r)
	require.Len(t, tasks, 1)

	out, err := r.run(ctx, "rm "+tasks[0].ID+"\ny\nundo\nquit\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted (Undo)")

	assert.Len(t, listTasks(ctx, t, r), 1)
}
