package commands

import (
	"context"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/tdo/internal/conventions"
	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DataDir    string
	ConfigPath string
	Storage    string
	Yes        bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	app.Flag("data-dir", "Directory where tasks and settings are stored.").Envar("TDO_DATA_DIR").Default(defaultDataDir).StringVar(&c.DataDir)
	app.Flag("config", "Path to the YAML configuration file (defaults to config.yaml inside the data dir).").Envar("TDO_CONFIG").StringVar(&c.ConfigPath)
	app.Flag("storage", "Storage backend, overrides the configuration.").EnumVar(&c.Storage,
		string(model.StorageBackendSQLite),
		string(model.StorageBackendDiskv),
		string(model.StorageBackendMemory),
	)
	app.Flag("yes", "Answer yes to every confirmation.").Short('y').BoolVar(&c.Yes)

	return c
}
