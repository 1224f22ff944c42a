package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/projection"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	search string
	status string
	sort   string
	format string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List tasks.").Alias("ls")
	c.Cmd.Flag("search", "Only tasks whose text contains this (case insensitive).").Short('s').StringVar(&c.search)
	c.Cmd.Flag("status", "Filter by status (all, done, todo).").Default(string(projection.StatusAll)).
		EnumVar(&c.status, string(projection.StatusAll), string(projection.StatusDone), string(projection.StatusTodo))
	c.Cmd.Flag("sort", "Sort by creation time (newest, oldest).").Default(string(projection.SortNewest)).
		EnumVar(&c.sort, string(projection.SortNewest), string(projection.SortOldest))
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		view := svc.View(projection.Query{
			Search: c.search,
			Status: projection.StatusFilter(c.status),
			Sort:   projection.SortOrder(c.sort),
		})

		p := newPrinter(c.format, c.rootCmd.Stdout)
		if err := p.PrintList(view.Tasks, view.Removing); err != nil {
			return fmt.Errorf("could not print list: %w", err)
		}
		return nil
	})
}
