package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/fileio"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/printer"
	"github.com/slok/tdo/internal/projection"
)

type ShellCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewShellCommand returns the shell command.
func NewShellCommand(rootCmd *RootCommand, app *kingpin.Application) *ShellCommand {
	c := &ShellCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("shell", "Open an interactive session, deletions can be undone while their notification is shown.")

	return c
}

func (c ShellCommand) Name() string { return c.Cmd.FullCommand() }

func (c ShellCommand) Run(ctx context.Context) error {
	// Commands and confirmations share the same input.
	in := bufio.NewReader(ctxReader{ctx: ctx, r: c.rootCmd.Stdin})
	opts := serviceOptions{confirmer: newConfirmer(c.rootCmd, in)}

	return withService(ctx, c.rootCmd, opts, func(svc *todo.Service) error {
		sh := newShell(svc, in, c.rootCmd.Stdout)
		return sh.run(ctx)
	})
}

const shellHelp = `Commands:
  add [category] <text>   Add a task (categories: %s).
  ls                      List the tasks.
  search [text]           Filter by text, empty to clear.
  filter all|done|todo    Filter by status.
  sort newest|oldest      Sort by creation time.
  toggle <id>             Mark a task as done or pending.
  edit <id> <text>        Change the text of a task.
  rm <id>                 Delete a task.
  clear-done              Delete the completed tasks.
  clear-all               Delete all the tasks.
  undo                    Undo the last deletion.
  dismiss                 Hide the notification.
  stats                   Show the progress.
  theme [dark|light]      Show or change the theme, toggles without argument.
  export                  Export the tasks.
  import <file>           Replace the tasks with the ones in a file.
  quit                    Exit.
`

type shell struct {
	svc     *todo.Service
	in      *bufio.Reader
	out     io.Writer
	printer printer.Printer
	query   projection.Query

	last model.Notification
}

func newShell(svc *todo.Service, in *bufio.Reader, out io.Writer) *shell {
	return &shell{
		svc:     svc,
		in:      in,
		out:     out,
		printer: printer.NewTablePrinter(out),
	}
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type 'help' to see the commands.")

	for {
		fmt.Fprint(s.out, "tdo> ")
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}

		quit, err := s.exec(ctx, strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(s.out, "Error: %s\n", err)
		}
		if quit {
			return nil
		}
		s.showNotification()
	}
}

func (s *shell) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]
	rest := strings.Join(args, " ")

	switch cmd {
	case "help", "?":
		fmt.Fprintf(s.out, shellHelp, strings.Join(categoryNames(), ", "))

	case "quit", "exit":
		return true, nil

	case "add":
		category := model.DefaultCategory
		if len(args) > 1 {
			if c, ok := model.ParseCategory(args[0]); ok {
				category = c
				rest = strings.Join(args[1:], " ")
			}
		}
		if _, err := s.svc.Add(ctx, rest, category); err != nil {
			return false, userError(err)
		}

	case "ls", "list":
		view := s.svc.View(s.query)
		if err := s.printer.PrintList(view.Tasks, view.Removing); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Progress: %d%% (%d/%d)\n", view.Stats.Progress, view.Stats.Completed, view.Stats.Total)

	case "search":
		s.query.Search = rest

	case "filter":
		switch f := projection.StatusFilter(rest); f {
		case projection.StatusAll, projection.StatusDone, projection.StatusTodo:
			s.query.Status = f
		default:
			return false, fmt.Errorf("unknown filter %q", rest)
		}

	case "sort":
		switch o := projection.SortOrder(rest); o {
		case projection.SortNewest, projection.SortOldest:
			s.query.Sort = o
		default:
			return false, fmt.Errorf("unknown sort %q", rest)
		}

	case "toggle", "done":
		task, err := s.find(args)
		if err != nil {
			return false, err
		}
		if _, err := s.svc.Toggle(ctx, task.ID); err != nil {
			return false, err
		}

	case "edit":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: edit <id> <text>")
		}
		task, err := s.find(args[:1])
		if err != nil {
			return false, err
		}
		// The validation message is shown as a notification.
		if _, err := s.svc.Edit(ctx, task.ID, strings.Join(args[1:], " ")); err != nil && todo.ErrorMessage(err) == "" {
			return false, err
		}

	case "rm":
		task, err := s.find(args)
		if err != nil {
			return false, err
		}
		if _, err := s.svc.Delete(ctx, task.ID); err != nil {
			return false, err
		}

	case "clear-done":
		if _, err := s.svc.DeleteCompleted(ctx); err != nil {
			return false, err
		}

	case "clear-all":
		if _, err := s.svc.DeleteAll(ctx); err != nil {
			return false, err
		}

	case "undo":
		if !s.svc.ConsumeNotification() {
			fmt.Fprintln(s.out, "Nothing to undo")
		}

	case "dismiss":
		s.svc.DismissNotification()

	case "stats":
		return false, s.printer.PrintStats(s.svc.Stats())

	case "theme":
		action := themeToggle
		if len(args) > 0 {
			action = args[0]
		}
		if action != themeDark && action != themeLight && action != themeToggle {
			return false, fmt.Errorf("unknown theme %q", action)
		}
		if err := applyTheme(ctx, s.svc, action); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Theme: %s\n", themeName(s.svc.Theme()))

	case "export":
		return false, s.svc.Export(ctx)

	case "import":
		if rest == "" {
			return false, fmt.Errorf("usage: import <file>")
		}
		abs, err := filepath.Abs(rest)
		if err != nil {
			return false, err
		}
		return false, s.svc.Import(ctx, fileio.NewSelection(os.DirFS(filepath.Dir(abs)), filepath.Base(abs)))

	default:
		return false, fmt.Errorf("unknown command %q, type 'help' to see the commands", cmd)
	}

	return false, nil
}

func (s *shell) find(args []string) (model.Task, error) {
	if len(args) != 1 {
		return model.Task{}, fmt.Errorf("a single task id is required")
	}
	return s.svc.Find(args[0])
}

// showNotification prints the live notification once.
func (s *shell) showNotification() {
	n, ok := s.svc.Notification()
	if !ok {
		return
	}
	if n.Message == s.last.Message && n.ExpiresAt.Equal(s.last.ExpiresAt) && n.Action == s.last.Action {
		return
	}
	s.last = n

	_ = s.printer.PrintNotification(n)
}

// ctxReader is a reader whose reads return when ctx is done. A read in flight
// when ctx ends is abandoned.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	type result struct {
		n   int
		err error
	}
	buf := make([]byte, len(p))
	ch := make(chan result, 1)
	go func() {
		n, err := c.r.Read(buf)
		ch <- result{n: n, err: err}
	}()

	select {
	case <-c.ctx.Done():
		return 0, c.ctx.Err()
	case res := <-ch:
		copy(p, buf[:res.n])
		return res.n, res.err
	}
}
