package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/labgrade/internal/app/history"
	"github.com/slok/labgrade/internal/printer"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	runID  string
	all    bool
	limit  int
	format string
}

// NewHistoryCommand returns the history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "List previous grades of the submission root.")
	c.Cmd.Flag("run-id", "Show the full report of a previous grade.").StringVar(&c.runID)
	c.Cmd.Flag("all", "List grades of every submission root.").BoolVar(&c.all)
	c.Cmd.Flag("limit", "Max number of grades listed, 0 lists all.").Default("20").IntVar(&c.limit)
	c.Cmd.Flag("format", "Output format (table, json, markdown).").Default("table").EnumVar(&c.format, "table", "json", "markdown")

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := history.NewService(history.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	case "markdown":
		p = printer.NewMarkdownPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	// A single grade.
	if c.runID != "" {
		g, err := svc.Get(ctx, c.runID)
		if err != nil {
			return err
		}
		if err := p.PrintReport(*g); err != nil {
			return fmt.Errorf("could not print grade: %w", err)
		}
		return nil
	}

	req := history.Request{Limit: c.limit}
	if !c.all {
		root, err := filepath.Abs(expandHome(c.rootCmd.Root))
		if err != nil {
			return fmt.Errorf("invalid root: %w", err)
		}
		req.RepoRoot = root
	}

	grades, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	if err := p.PrintHistory(grades); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
