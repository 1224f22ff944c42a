package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
)

type StatsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewStatsCommand returns the stats command.
func NewStatsCommand(rootCmd *RootCommand, app *kingpin.Application) *StatsCommand {
	c := &StatsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("stats", "Show the progress and the tasks per category.")
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c StatsCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatsCommand) Run(ctx context.Context) error {
	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		p := newPrinter(c.format, c.rootCmd.Stdout)
		if err := p.PrintStats(svc.Stats()); err != nil {
			return fmt.Errorf("could not print stats: %w", err)
		}
		return nil
	})
}
