package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/labgrade/internal/log"
	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/rubric"
	storageio "github.com/slok/labgrade/internal/storage/io"
	"github.com/slok/labgrade/internal/storage/sqlite"
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
	Root       string
	RubricFile string
	HistoryDB  string
	NoHistory  bool

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
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("root", "Submission root directory.").Default(".").StringVar(&c.Root)
	app.Flag("rubric-file", "YAML rubric file, by default the embedded 6-2 lab rubric.").StringVar(&c.RubricFile)

	defaultHistoryDB := filepath.Join(homedir.HomeDir(), ".labgrade", "history.db")
	app.Flag("history-db", "Path to the SQLite grade history database.").Default(defaultHistoryDB).StringVar(&c.HistoryDB)
	app.Flag("no-history", "Don't store the grade in the history.").BoolVar(&c.NoHistory)

	return c
}

// LoadRubric loads the rubric file or the embedded one when no file has been set.
func (c RootCommand) LoadRubric(ctx context.Context) (model.Rubric, error) {
	if c.RubricFile == "" {
		return storageio.NewRubricYAMLRepository(rubric.FS).GetRubric(ctx, rubric.DefaultPath)
	}

	p := expandHome(c.RubricFile)
	repo := storageio.NewRubricYAMLRepository(os.DirFS(filepath.Dir(p)))
	r, err := repo.GetRubric(ctx, filepath.Base(p))
	if err != nil {
		return model.Rubric{}, fmt.Errorf("could not load rubric %q: %w", p, err)
	}

	return r, nil
}

// OpenHistory opens the grade history database.
func (c RootCommand) OpenHistory(ctx context.Context) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: expandHome(c.HistoryDB),
		Logger: c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open grade history: %w", err)
	}

	return repo, nil
}

// expandHome expands a leading "~", paths coming from env vars are not expanded by the shell.
func expandHome(p string) string {
	switch {
	case p == "~":
		return homedir.HomeDir()
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(homedir.HomeDir(), p[2:])
	default:
		return p
	}
}
