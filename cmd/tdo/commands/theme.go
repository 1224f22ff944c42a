package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tdo/internal/app/todo"
	"github.com/slok/tdo/internal/printer"
)

const (
	themeShow   = "show"
	themeDark   = "dark"
	themeLight  = "light"
	themeToggle = "toggle"
)

type ThemeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	action string
}

// NewThemeCommand returns the theme command.
func NewThemeCommand(rootCmd *RootCommand, app *kingpin.Application) *ThemeCommand {
	c := &ThemeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("theme", "Show or change the theme preference.")
	c.Cmd.Arg("action", "Theme action (show, dark, light, toggle).").Default(themeShow).
		EnumVar(&c.action, themeShow, themeDark, themeLight, themeToggle)

	return c
}

func (c ThemeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ThemeCommand) Run(ctx context.Context) error {
	return withService(ctx, c.rootCmd, serviceOptions{}, func(svc *todo.Service) error {
		if err := applyTheme(ctx, svc, c.action); err != nil {
			return err
		}
		return printer.NewTablePrinter(c.rootCmd.Stdout).PrintMessage("Theme: " + themeName(svc.Theme()))
	})
}

func applyTheme(ctx context.Context, svc *todo.Service, action string) error {
	switch action {
	case themeDark:
		return svc.SetTheme(ctx, true)
	case themeLight:
		return svc.SetTheme(ctx, false)
	case themeToggle:
		_, err := svc.ToggleTheme(ctx)
		return err
	default:
		return nil
	}
}

func themeName(dark bool) string {
	if dark {
		return themeDark
	}
	return themeLight
}
