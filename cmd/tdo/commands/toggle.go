package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
)

type ToggleCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	format string
}

// NewToggleCommand returns the toggle command.
func NewToggleCommand(rootCmd *RootCommand, app *kingpin.Application) *ToggleCommand {
	c := &ToggleCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("toggle", "Mark a task as done, or as pending if it was done.").Alias("done")
	c.Cmd.Arg("id", "Task ID or unique ID prefix.").Required().StringVar(&c.id)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ToggleCommand) Name() string { return c.Cmd.FullCommand() }

func (c ToggleCommand) Run(ctx context.Context) error {
	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		task, err := svc.Find(c.id)
		if err != nil {
			return err
		}

		task, err = svc.Toggle(ctx, task.ID)
		if err != nil {
			return err
		}

		p := newPrinter(c.format, c.rootCmd.Stdout)
		if err := p.PrintTask(task); err != nil {
			return fmt.Errorf("could not print task: %w", err)
		}
		if c.format == formatTable {
			return printNotification(p, svc)
		}
		return nil
	})
}
