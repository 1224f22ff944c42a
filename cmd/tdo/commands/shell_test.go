package commands

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/prompt"
	"github.com/slok/tdo/internal/storage/memory"
	"github.com/slok/tdo/internal/timer/fake"
)

func newTestShell(t *testing.T, input string) (*shell, *fake.Scheduler, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	store, err := memory.NewKV(memory.KVConfig{})
	require.NoError(t, err)

	in := bufio.NewReader(strings.NewReader(input))
	sched := fake.NewScheduler(time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC))
	n := 0
	svc, err := todo.NewService(context.TODO(), todo.ServiceConfig{
		Store:     store,
		Confirmer: prompt.NewTerminal(in, io.Discard),
		Scheduler: sched,
		Now:       sched.Now,
		NewID: func(time.Time) string {
			n++
			return fmt.Sprintf("task-%02d", n)
		},
		Quote: func() string { return "Keep going" },
	})
	require.NoError(t, err)

	var out bytes.Buffer
	return newShell(svc, in, &out), sched, &out
}

func TestShellExec(t *testing.T) {
	sh, sched, out := newTestShell(t, "y\n")

	steps := []struct {
		line     string
		advance  time.Duration
		expOut   []string
		expNoOut []string
		expErr   bool
		expQuit  bool
	}{
		{line: "add Kerja Write report"},
		{line: "add Essay"},
		{line: "ls", expOut: []string{"Write report", "Kerja", "Essay", "Kuliah", "Progress: 0% (0/2)"}},
		{line: "rm task-01", advance: time.Second},
		{line: "ls", expNoOut: []string{"Write report"}},
		{line: "undo"},
		{line: "ls", expOut: []string{"Write report"}},
		{line: "toggle task-02"},
		{line: "filter done"},
		{line: "ls", expOut: []string{"Essay", "Progress: 50% (1/2)"}, expNoOut: []string{"Write report"}},
		{line: "filter soon", expErr: true},
		{line: "filter all"},
		{line: "search REPORT"},
		{line: "ls", expOut: []string{"Write report"}, expNoOut: []string{"Essay"}},
		{line: "rm", expErr: true},
		{line: "edit task-02", expErr: true},
		{line: "edit task-02 Final essay"},
		{line: "theme dark", expOut: []string{"Theme: dark"}},
		{line: "undo", expOut: []string{"Nothing to undo"}},
		{line: "stats", expOut: []string{"50% (1/2)"}},
		{line: "bogus", expErr: true},
		{line: "quit", expQuit: true},
	}

	for _, step := range steps {
		out.Reset()
		quit, err := sh.exec(context.TODO(), step.line)
		if step.expErr {
			assert.Error(t, err, step.line)
		} else {
			assert.NoError(t, err, step.line)
		}
		assert.Equal(t, step.expQuit, quit, step.line)

		for _, exp := range step.expOut {
			assert.Contains(t, out.String(), exp, step.line)
		}
		for _, exp := range step.expNoOut {
			assert.NotContains(t, out.String(), exp, step.line)
		}
		sched.Advance(step.advance)
	}
}

func TestShellRun(t *testing.T) {
	sh, _, out := newTestShell(t, "add Buy milk\nundo\nadd Buy milk\nquit\n")

	err := sh.run(context.TODO())
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "tdo> ")
	assert.Contains(t, got, "Keep going")
	assert.Contains(t, got, "Nothing to undo")
	assert.Contains(t, got, "Error: A task with the same text already exists in this category")
}

func TestShellRunEndOfInput(t *testing.T) {
	sh, _, _ := newTestShell(t, "add Buy milk")

	err := sh.run(context.TODO())
	require.NoError(t, err)

	assert.Equal(t, 1, sh.svc.Stats().Total)
}
