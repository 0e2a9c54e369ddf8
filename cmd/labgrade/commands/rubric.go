package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/labgrade/internal/printer"
)

type RubricCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewRubricCommand returns the rubric command.
func NewRubricCommand(rootCmd *RootCommand, app *kingpin.Application) *RubricCommand {
	c := &RubricCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("rubric", "Show the rubric tasks and their gates.")
	c.Cmd.Flag("format", "Output format (table, json, markdown).").Default("table").EnumVar(&c.format, "table", "json", "markdown")

	return c
}

func (c RubricCommand) Name() string { return c.Cmd.FullCommand() }

func (c RubricCommand) Run(ctx context.Context) error {
	r, err := c.rootCmd.LoadRubric(ctx)
	if err != nil {
		return err
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

	if err := p.PrintRubric(r); err != nil {
		return fmt.Errorf("could not print rubric: %w", err)
	}

	return nil
}
