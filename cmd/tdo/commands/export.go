package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/codec"
	"github.com/slok/tdo/internal/fileio"
	"github.com/slok/tdo/internal/printer"
)

type ExportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	dir    string
	stdout bool
}

// NewExportCommand returns the export command.
func NewExportCommand(rootCmd *RootCommand, app *kingpin.Application) *ExportCommand {
	c := &ExportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("export", "Export all tasks to "+codec.ExportFilename+".")
	c.Cmd.Flag("dir", "Directory to write the export to (defaults to the configured export dir).").StringVar(&c.dir)
	c.Cmd.Flag("stdout", "Write the export to the standard output.").BoolVar(&c.stdout)

	return c
}

func (c ExportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ExportCommand) Run(ctx context.Context) error {
	var opts serviceOptions
	switch {
	case c.stdout:
		opts.exporter = fileio.WriterExporter{Writer: c.rootCmd.Stdout}
	case c.dir != "":
		opts.exporter = fileio.DirExporter{Dir: c.dir}
	}

	return withService(ctx, c.rootCmd, opts, func(svc *todo.Service) error {
		if err := svc.Export(ctx); err != nil {
			return err
		}
		if c.stdout {
			return nil
		}
		return printNotification(printer.NewTablePrinter(c.rootCmd.Stdout), svc)
	})
}
