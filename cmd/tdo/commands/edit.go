package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
)

type EditCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	text   []string
	format string
}

// NewEditCommand returns the edit command.
func NewEditCommand(rootCmd *RootCommand, app *kingpin.Application) *EditCommand {
	c := &EditCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("edit", "Change the text of a task.")
	c.Cmd.Arg("id", "Task ID or unique ID prefix.").Required().StringVar(&c.id)
	c.Cmd.Arg("text", "New task text.").Required().StringsVar(&c.text)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c EditCommand) Name() string { return c.Cmd.FullCommand() }

func (c EditCommand) Run(ctx context.Context) error {
	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		task, err := svc.Find(c.id)
		if err != nil {
			return err
		}

		task, err = svc.Edit(ctx, task.ID, strings.Join(c.text, " "))
		if err != nil {
			return userError(err)
		}

		p := newPrinter(c.format, c.rootCmd.Stdout)
		if err := p.PrintTask(task); err != nil {
			return fmt.Errorf("could not print task: %w", err)
		}
		return nil
	})
}
