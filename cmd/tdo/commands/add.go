package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/model"
)

type AddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	text     []string
	category string
	format   string
}

// NewAddCommand returns the add command.
func NewAddCommand(rootCmd *RootCommand, app *kingpin.Application) *AddCommand {
	c := &AddCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("add", "Add a task.")
	c.Cmd.Arg("text", "Task text.").Required().StringsVar(&c.text)
	c.Cmd.Flag("category", "Task category.").Short('c').Default(string(model.DefaultCategory)).EnumVar(&c.category, categoryNames()...)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c AddCommand) Name() string { return c.Cmd.FullCommand() }

func (c AddCommand) Run(ctx context.Context) error {
	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		task, err := svc.Add(ctx, strings.Join(c.text, " "), model.Category(c.category))
		if err != nil {
			return userError(err)
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

func categoryNames() []string {
	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, string(c))
	}
	return names
}

// userError prefixes validation errors with their user facing message.
func userError(err error) error {
	if msg := todo.ErrorMessage(err); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
