package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/printer"
)

// Remove modes.
const (
	removeOne       = "rm"
	removeCompleted = "clear-done"
	removeAll       = "clear-all"
)

type RemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	mode string
	id   string
}

// NewRemoveCommand returns the rm command.
func NewRemoveCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd, mode: removeOne}

	c.Cmd = app.Command(removeOne, "Delete a task.")
	c.Cmd.Arg("id", "Task ID or unique ID prefix.").Required().StringVar(&c.id)

	return c
}

// NewClearDoneCommand returns the clear-done command.
func NewClearDoneCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd, mode: removeCompleted}
	c.Cmd = app.Command(removeCompleted, "Delete all completed tasks.")
	return c
}

// NewClearAllCommand returns the clear-all command.
func NewClearAllCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd, mode: removeAll}
	c.Cmd = app.Command(removeAll, "Delete all tasks.")
	return c
}

func (c RemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c RemoveCommand) Run(ctx context.Context) error {
	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		deleted, err := remove(ctx, svc, c.mode, c.id)
		if err != nil {
			return err
		}

		p := printer.NewTablePrinter(c.rootCmd.Stdout)
		if !deleted {
			return p.PrintMessage("Nothing deleted")
		}

		n, ok := svc.Notification()
		if !ok {
			return nil
		}
		if err := p.PrintMessage(n.Message); err != nil {
			return fmt.Errorf("could not print message: %w", err)
		}
		return nil
	})
}

func remove(ctx context.Context, svc *todo.Service, mode, ref string) (bool, error) {
	switch mode {
	case removeCompleted:
		return svc.DeleteCompleted(ctx)
	case removeAll:
		return svc.DeleteAll(ctx)
	default:
		task, err := svc.Find(ref)
		if err != nil {
			return false, err
		}
		return svc.Delete(ctx, task.ID)
	}
}
