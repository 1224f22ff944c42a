package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/fileio"
	"github.com/slok/tdo/internal/printer"
)

type ImportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path string
}

// NewImportCommand returns the import command.
func NewImportCommand(rootCmd *RootCommand, app *kingpin.Application) *ImportCommand {
	c := &ImportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("import", "Replace all tasks with the ones of an exported JSON file.")
	c.Cmd.Arg("file", "JSON file to import.").Required().StringVar(&c.path)

	return c
}

func (c ImportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ImportCommand) Run(ctx context.Context) error {
	abs, err := filepath.Abs(c.path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	sel := fileio.NewSelection(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))

	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		if err := svc.Import(ctx, sel); err != nil {
			return err
		}
		return printNotification(printer.NewTablePrinter(c.rootCmd.Stdout), svc)
	})
}
