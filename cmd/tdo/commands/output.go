package commands

import (
	"io"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/printer"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func addFormatFlag(cmd *kingpin.CmdClause, format *string) {
	cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(format, formatTable, formatJSON)
}

func newPrinter(format string, w io.Writer) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(w)
	default:
		return printer.NewTablePrinter(w)
	}
}

// printNotification prints the live notification, if any.
func printNotification(p printer.Printer, svc *todo.Service) error {
	n, ok := svc.Notification()
	if !ok {
		return nil
	}
	return p.PrintNotification(n)
}
