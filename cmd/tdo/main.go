package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/tdo/cmd/tdo/commands"
	"github.com/slok/tdo/internal/log"
	loglogrus "github.com/slok/tdo/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("tdo", "Personal task list.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	addCmd := commands.NewAddCommand(rootCmd, app)
	listCmd := commands.NewListCommand(rootCmd, app)
	toggleCmd := commands.NewToggleCommand(rootCmd, app)
	editCmd := commands.NewEditCommand(rootCmd, app)
	removeCmd := commands.NewRemoveCommand(rootCmd, app)
	clearDoneCmd := commands.NewClearDoneCommand(rootCmd, app)
	clearAllCmd := commands.NewClearAllCommand(rootCmd, app)
	exportCmd := commands.NewExportCommand(rootCmd, app)
	importCmd := commands.NewImportCommand(rootCmd, app)
	statsCmd := commands.NewStatsCommand(rootCmd, app)
	themeCmd := commands.NewThemeCommand(rootCmd, app)
	shellCmd := commands.NewShellCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		addCmd.Name():       addCmd,
		listCmd.Name():      listCmd,
		toggleCmd.Name():    toggleCmd,
		editCmd.Name():      editCmd,
		removeCmd.Name():    removeCmd,
		clearDoneCmd.Name(): clearDoneCmd,
		clearAllCmd.Name():  clearAllCmd,
		exportCmd.Name():    exportCmd,
		importCmd.Name():    importCmd,
		statsCmd.Name():     statsCmd,
		themeCmd.Name():     themeCmd,
		shellCmd.Name():     shellCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	if rootCmd.NoColor {
		color.NoColor = true
	}

	// Logs would mix with the printed output and the interactive session,
	// only shown with --debug.
	if !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(ctx, *rootCmd)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(ctx context.Context, config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If logger not disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // By default logger goes to stderr (so it can split stdout prints).
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format.
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
